package websocket

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// RevocationChecker reports whether a token has been revoked by logout
type RevocationChecker interface {
	IsRevoked(token string) bool
}

// tokenClaims carries the custom claims issued alongside the registered set
type tokenClaims struct {
	TokenUse string `json:"token_use,omitempty"`
}

// Validate implements validator.CustomClaims
func (c tokenClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTValidator validates access tokens presented on WebSocket upgrade requests.
// Browsers cannot set an Authorization header on a WebSocket handshake, so the
// token arrives as a query parameter and is validated here.
type JWTValidator struct {
	validator *validator.Validator
	revoked   RevocationChecker
}

// NewJWTValidator creates a new JWTValidator for HS256 tokens signed with secret
func NewJWTValidator(secret []byte, issuer, audience string, revoked RevocationChecker) (*JWTValidator, error) {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return secret, nil
		},
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &tokenClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &JWTValidator{
		validator: jwtValidator,
		revoked:   revoked,
	}, nil
}

// ValidateToken validates an access token and returns the user ID it belongs to.
// Refresh tokens and revoked tokens are rejected.
func (v *JWTValidator) ValidateToken(token string) (userID int32, err error) {
	if v.revoked != nil && v.revoked.IsRevoked(token) {
		return 0, ErrInvalidToken
	}

	ctx := context.Background()

	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	if custom, ok := validatedClaims.CustomClaims.(*tokenClaims); ok && custom.TokenUse != "" {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(validatedClaims.RegisteredClaims.Subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return int32(id), nil
}
