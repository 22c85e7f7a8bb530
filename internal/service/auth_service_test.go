package service

import (
	"testing"
	"time"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/testutil"
)

func newTestAuthService() (*AuthService, *testutil.MockUserRepository, *TokenService) {
	userRepo := testutil.NewMockUserRepository()
	tokens := NewTokenService([]byte("test-secret-test-secret-test-secret!"), "outgo-test", "outgo-test", 30*time.Minute, 168*time.Hour)
	return NewAuthService(userRepo, tokens), userRepo, tokens
}

func TestRegister_Success(t *testing.T) {
	authService, _, _ := newTestAuthService()

	fullName := "Ada Example"
	user, pair, err := authService.Register("ada@example.com", "Sup3rSecret", &fullName)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("Expected email ada@example.com, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Sup3rSecret" {
		t.Error("Expected password to be stored hashed")
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Expected a token pair to be issued on registration")
	}
	if pair.TokenType != "bearer" {
		t.Errorf("Expected token type bearer, got %s", pair.TokenType)
	}
}

func TestRegister_TokensUsableImmediately(t *testing.T) {
	authService, _, tokens := newTestAuthService()

	user, pair, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The refresh token from registration must work without a separate login
	userID, err := tokens.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if userID != user.ID {
		t.Errorf("Expected refresh token for user %d, got %d", user.ID, userID)
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	authService, userRepo, _ := newTestAuthService()

	if _, _, err := authService.Register("  Ada@Example.COM ", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := userRepo.GetByEmail("ada@example.com"); err != nil {
		t.Errorf("Expected user stored under lowercased email, got %v", err)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	authService, _, _ := newTestAuthService()

	for _, email := range []string{"", "not-an-email", "a@", "spaces in@example.com"} {
		_, _, err := authService.Register(email, "Sup3rSecret", nil)
		if err != domain.ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail for %q, got %v", email, err)
		}
	}
}

func TestRegister_WeakPasswords(t *testing.T) {
	authService, _, _ := newTestAuthService()

	cases := []string{
		"Short1",      // under 8 characters
		"alllowercase1", // no uppercase
		"NoDigitsHere",  // no digit
	}
	for _, password := range cases {
		_, _, err := authService.Register("ada@example.com", password, nil)
		if err != domain.ErrPasswordTooWeak {
			t.Errorf("Expected ErrPasswordTooWeak for %q, got %v", password, err)
		}
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	authService, _, _ := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, _, err := authService.Register("ada@example.com", "An0therPass", nil)
	if err != domain.ErrEmailTaken {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	authService, _, _ := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
	if pair.TokenType != "bearer" {
		t.Errorf("Expected token type bearer, got %s", pair.TokenType)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	authService, _, _ := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := authService.Login("ada@example.com", "WrongPass1")
	if err != domain.ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	authService, _, _ := newTestAuthService()

	_, err := authService.Login("nobody@example.com", "Sup3rSecret")
	if err != domain.ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	authService, _, tokens := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fresh, err := authService.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Error("Expected a fresh token pair")
	}

	// The used refresh token must not be replayable
	if _, err := authService.Refresh(pair.RefreshToken); err != ErrTokenRevoked {
		t.Errorf("Expected ErrTokenRevoked on replay, got %v", err)
	}

	if !tokens.Blacklist().IsRevoked(pair.RefreshToken) {
		t.Error("Expected the used refresh token to be blacklisted")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	authService, _, _ := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := authService.Refresh(pair.AccessToken); err != ErrNotRefreshToken {
		t.Errorf("Expected ErrNotRefreshToken, got %v", err)
	}
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	authService, _, tokens := newTestAuthService()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	authService.Logout(pair.AccessToken)

	if !tokens.Blacklist().IsRevoked(pair.AccessToken) {
		t.Error("Expected the access token to be revoked")
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	authService, _, _ := newTestAuthService()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fullName := "Ada Lovelace"
	updated, err := authService.UpdateProfile(user.ID, "ada.l@example.com", &fullName)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Email != "ada.l@example.com" {
		t.Errorf("Expected updated email, got %s", updated.Email)
	}
	if updated.FullName == nil || *updated.FullName != "Ada Lovelace" {
		t.Error("Expected full name to be updated")
	}
}

func TestChangePassword_Success(t *testing.T) {
	authService, _, _ := newTestAuthService()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := authService.ChangePassword(user.ID, "Sup3rSecret", "N3wSecret99"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := authService.Login("ada@example.com", "Sup3rSecret"); err != domain.ErrInvalidCredentials {
		t.Errorf("Expected old password to stop working, got %v", err)
	}
	if _, err := authService.Login("ada@example.com", "N3wSecret99"); err != nil {
		t.Errorf("Expected new password to work, got %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	authService, _, _ := newTestAuthService()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := authService.ChangePassword(user.ID, "WrongPass1", "N3wSecret99"); err != domain.ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword_Unchanged(t *testing.T) {
	authService, _, _ := newTestAuthService()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := authService.ChangePassword(user.ID, "Sup3rSecret", "Sup3rSecret"); err != domain.ErrPasswordUnchanged {
		t.Errorf("Expected ErrPasswordUnchanged, got %v", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := verifyPassword("whatever", "not-a-phc-string"); err == nil {
		t.Error("Expected an error for a malformed hash")
	}
}
