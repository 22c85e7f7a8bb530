package service

import (
	"errors"
	"strconv"
	"sync"
	"time"

	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// Token errors
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrNotRefreshToken = errors.New("not a refresh token")
	ErrTokenRevoked    = errors.New("token has been revoked")
)

// TokenUseRefresh marks refresh tokens via the token_use claim.
// Access tokens carry no token_use claim.
const TokenUseRefresh = "refresh"

// TokenPair is an access/refresh token pair issued on register, login and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// tokenClaims are the private claims added on top of the registered set
type tokenClaims struct {
	TokenUse string `json:"token_use,omitempty"`
}

// TokenService issues and verifies HS256 JWTs
type TokenService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  *TokenBlacklist
}

// NewTokenService creates a new TokenService
func NewTokenService(secret []byte, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     secret,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  NewTokenBlacklist(),
	}
}

// Blacklist returns the revocation list shared with the auth middleware
func (s *TokenService) Blacklist() *TokenBlacklist {
	return s.blacklist
}

// IssuePair mints a new access/refresh token pair for a user
func (s *TokenService) IssuePair(userID int32) (*TokenPair, error) {
	access, err := s.sign(userID, "", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, TokenUseRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *TokenService) sign(userID int32, tokenUse string, ttl time.Duration) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.Claims{
		Subject:  strconv.FormatInt(int64(userID), 10),
		Issuer:   s.issuer,
		Audience: jwt.Audience{s.audience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.Signed(signer).
		Claims(claims).
		Claims(tokenClaims{TokenUse: tokenUse}).
		CompactSerialize()
}

// VerifyRefresh validates a refresh token and returns the user ID it was
// issued for. Access tokens are rejected.
func (s *TokenService) VerifyRefresh(token string) (int32, error) {
	if s.blacklist.IsRevoked(token) {
		return 0, ErrTokenRevoked
	}

	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	var claims jwt.Claims
	var private tokenClaims
	if err := parsed.Claims(s.secret, &claims, &private); err != nil {
		return 0, ErrInvalidToken
	}

	if err := claims.Validate(jwt.Expected{
		Issuer:   s.issuer,
		Audience: jwt.Audience{s.audience},
		Time:     time.Now(),
	}); err != nil {
		return 0, ErrInvalidToken
	}

	if private.TokenUse != TokenUseRefresh {
		return 0, ErrNotRefreshToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return int32(userID), nil
}

// Revoke adds a token to the blacklist until its natural expiry
func (s *TokenService) Revoke(token string) {
	expiry := time.Now().Add(s.refreshTTL)
	if parsed, err := jwt.ParseSigned(token); err == nil {
		var claims jwt.Claims
		if err := parsed.UnsafeClaimsWithoutVerification(&claims); err == nil && claims.Expiry != nil {
			expiry = claims.Expiry.Time()
		}
	}
	s.blacklist.Revoke(token, expiry)
}

// TokenBlacklist is an in-memory revocation list. Entries are pruned lazily
// once their token would have expired anyway.
// It is safe for concurrent use.
type TokenBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewTokenBlacklist creates an empty TokenBlacklist
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{revoked: make(map[string]time.Time)}
}

// Revoke marks a token as revoked until expiry
func (b *TokenBlacklist) Revoke(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for t, exp := range b.revoked {
		if exp.Before(now) {
			delete(b.revoked, t)
		}
	}
	b.revoked[token] = expiry
}

// IsRevoked reports whether a token has been revoked and is still inside its
// original lifetime
func (b *TokenBlacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiry, ok := b.revoked[token]
	if !ok {
		return false
	}
	return expiry.After(time.Now())
}
