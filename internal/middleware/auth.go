package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the private claims carried by Outgo JWTs
type CustomClaims struct {
	TokenUse string `json:"token_use,omitempty"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
	// RawTokenKey is the context key for the raw bearer token
	RawTokenKey contextKey = "raw_token"
)

// TokenRevocationChecker reports whether a token has been revoked
type TokenRevocationChecker interface {
	IsRevoked(token string) bool
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator *validator.Validator
	revoked   TokenRevocationChecker
}

// NewAuthMiddleware creates an AuthMiddleware validating HS256 tokens signed
// with the shared secret
func NewAuthMiddleware(secret []byte, issuer, audience string, revoked TokenRevocationChecker) (*AuthMiddleware, error) {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return secret, nil
		},
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator: jwtValidator,
		revoked:   revoked,
	}, nil
}

// Authenticate returns an Echo middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			token := parts[1]

			if m.revoked != nil && m.revoked.IsRevoked(token) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
			}

			// Validate the token
			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			// Refresh tokens are only good for the refresh exchange
			if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok && custom.TokenUse != "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not accepted here")
			}

			userID, err := strconv.ParseInt(validatedClaims.RegisteredClaims.Subject, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
			}

			// Store claims in context
			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, UserIDKey, int32(userID))
			ctx = context.WithValue(ctx, RawTokenKey, token)

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user's ID from the context.
// It returns 0 when the request is unauthenticated.
func GetUserID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(UserIDKey).(int32); ok {
		return id
	}
	return 0
}

// GetRawToken extracts the raw bearer token from the context
func GetRawToken(c echo.Context) string {
	if token, ok := c.Request().Context().Value(RawTokenKey).(string); ok {
		return token
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}
