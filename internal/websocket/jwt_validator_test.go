package websocket

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

var (
	testSecret   = []byte("test-secret-test-secret-test-secret!")
	testIssuer   = "outgo-test"
	testAudience = "outgo-test"
)

// mockRevocationChecker is a test double for RevocationChecker
type mockRevocationChecker struct {
	revoked map[string]bool
}

func (m *mockRevocationChecker) IsRevoked(token string) bool {
	return m.revoked[token]
}

// signTestToken mints an HS256 token the way the auth service does
func signTestToken(t *testing.T, secret []byte, userID int32, tokenUse string, ttl time.Duration) string {
	t.Helper()

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	now := time.Now()
	claims := jwt.Claims{
		Subject:  strconv.FormatInt(int64(userID), 10),
		Issuer:   testIssuer,
		Audience: jwt.Audience{testAudience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.Signed(signer).
		Claims(claims).
		Claims(tokenClaims{TokenUse: tokenUse}).
		CompactSerialize()
	require.NoError(t, err)

	return token
}

func newTestValidator(t *testing.T, revoked RevocationChecker) *JWTValidator {
	t.Helper()

	v, err := NewJWTValidator(testSecret, testIssuer, testAudience, revoked)
	require.NoError(t, err)
	return v
}

func TestJWTValidator_ValidateToken_Success(t *testing.T) {
	v := newTestValidator(t, nil)

	token := signTestToken(t, testSecret, 42, "", time.Hour)

	userID, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(42), userID)
}

func TestJWTValidator_ValidateToken_RejectsRefreshToken(t *testing.T) {
	v := newTestValidator(t, nil)

	// Refresh tokens carry token_use and must not open a socket
	token := signTestToken(t, testSecret, 42, "refresh", time.Hour)

	userID, err := v.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int32(0), userID)
}

func TestJWTValidator_ValidateToken_RejectsRevoked(t *testing.T) {
	token := signTestToken(t, testSecret, 42, "", time.Hour)

	checker := &mockRevocationChecker{revoked: map[string]bool{token: true}}
	v := newTestValidator(t, checker)

	userID, err := v.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int32(0), userID)
}

func TestJWTValidator_ValidateToken_RejectsGarbage(t *testing.T) {
	v := newTestValidator(t, nil)

	userID, err := v.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int32(0), userID)
}

func TestJWTValidator_ValidateToken_RejectsWrongSecret(t *testing.T) {
	v := newTestValidator(t, nil)

	token := signTestToken(t, []byte("another-secret-another-secret-other!"), 42, "", time.Hour)

	userID, err := v.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int32(0), userID)
}

func TestJWTValidator_ValidateToken_RejectsExpired(t *testing.T) {
	v := newTestValidator(t, nil)

	// Expired beyond the allowed clock skew
	token := signTestToken(t, testSecret, 42, "", -2*time.Hour)

	userID, err := v.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int32(0), userID)
}

func TestTokenClaims_Validate(t *testing.T) {
	claims := &tokenClaims{}
	err := claims.Validate(nil)
	assert.NoError(t, err)
}
