package service

import (
	"testing"
	"time"
)

func newTestTokenService() *TokenService {
	return NewTokenService([]byte("test-secret-test-secret-test-secret!"), "outgo-test", "outgo-test", 30*time.Minute, 168*time.Hour)
}

func TestIssuePair(t *testing.T) {
	tokens := newTestTokenService()

	pair, err := tokens.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pair.AccessToken == "" {
		t.Error("Expected non-empty access token")
	}
	if pair.RefreshToken == "" {
		t.Error("Expected non-empty refresh token")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("Expected access and refresh tokens to differ")
	}
	if pair.TokenType != "bearer" {
		t.Errorf("Expected token type bearer, got %s", pair.TokenType)
	}
}

func TestVerifyRefresh_Success(t *testing.T) {
	tokens := newTestTokenService()

	pair, err := tokens.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID, err := tokens.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user ID 42, got %d", userID)
	}
}

func TestVerifyRefresh_RejectsAccessToken(t *testing.T) {
	tokens := newTestTokenService()

	pair, err := tokens.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := tokens.VerifyRefresh(pair.AccessToken); err != ErrNotRefreshToken {
		t.Errorf("Expected ErrNotRefreshToken, got %v", err)
	}
}

func TestVerifyRefresh_Garbage(t *testing.T) {
	tokens := newTestTokenService()

	if _, err := tokens.VerifyRefresh("not.a.jwt"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefresh_WrongSecret(t *testing.T) {
	tokens := newTestTokenService()
	other := NewTokenService([]byte("another-secret-another-secret-another"), "outgo-test", "outgo-test", 30*time.Minute, 168*time.Hour)

	pair, err := other.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := tokens.VerifyRefresh(pair.RefreshToken); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefresh_Expired(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret-test-secret-test-secret!"), "outgo-test", "outgo-test", 30*time.Minute, -time.Hour)

	pair, err := tokens.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := tokens.VerifyRefresh(pair.RefreshToken); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for an expired token, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	tokens := newTestTokenService()

	pair, err := tokens.IssuePair(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tokens.Revoke(pair.RefreshToken)

	if _, err := tokens.VerifyRefresh(pair.RefreshToken); err != ErrTokenRevoked {
		t.Errorf("Expected ErrTokenRevoked, got %v", err)
	}
}

func TestBlacklist_ExpiredEntriesIgnored(t *testing.T) {
	blacklist := NewTokenBlacklist()

	blacklist.Revoke("old-token", time.Now().Add(-time.Minute))
	if blacklist.IsRevoked("old-token") {
		t.Error("Expected an entry past its expiry to be ignored")
	}

	blacklist.Revoke("live-token", time.Now().Add(time.Hour))
	if !blacklist.IsRevoked("live-token") {
		t.Error("Expected a live entry to be revoked")
	}
}
