package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/service"
	"github.com/outgo-app/outgo-backend/internal/testutil"
)

// Helper to set up auth context the way the middleware does
func setupAuthContext(c echo.Context, userID int32) {
	setupAuthContextWithToken(c, userID, "test-token")
}

func setupAuthContextWithToken(c echo.Context, userID int32, token string) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RawTokenKey, token)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newTestAuthHandler() (*AuthHandler, *service.AuthService, *service.TokenService) {
	userRepo := testutil.NewMockUserRepository()
	tokens := service.NewTokenService([]byte("test-secret-test-secret-test-secret!"), "outgo-test", "outgo-test", 30*time.Minute, 168*time.Hour)
	authService := service.NewAuthService(userRepo, tokens)
	return NewAuthHandler(authService), authService, tokens
}

func TestRegister_Created(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestAuthHandler()

	body := `{"email":"ada@example.com","password":"Sup3rSecret","fullName":"Ada Example"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response RegisterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.User == nil || response.User.Email != "ada@example.com" {
		t.Errorf("Expected user with email ada@example.com, got %+v", response.User)
	}
	if response.Tokens == nil || response.Tokens.AccessToken == "" || response.Tokens.RefreshToken == "" {
		t.Fatal("Expected a token pair so the client is logged in after sign-up")
	}
	if response.Tokens.TokenType != "bearer" {
		t.Errorf("Expected token type bearer, got %s", response.Tokens.TokenType)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("Expected the password hash to be excluded from the response")
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestAuthHandler()

	body := `{"email":"ada@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
	if len(problem.Errors) == 0 || problem.Errors[0].Field != "password" {
		t.Error("Expected a field error on password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"email":"ada@example.com","password":"An0therPass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"email":"ada@example.com","password":"Sup3rSecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var pair service.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Expected both tokens in the response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"email":"ada@example.com","password":"WrongPass1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestRefresh_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"refreshToken":"` + pair.RefreshToken + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestAuthHandler()

	body := `{"refreshToken":"garbage"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	e := echo.New()
	handler, authService, tokens := newTestAuthHandler()

	if _, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pair, err := authService.Login("ada@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithToken(c, 1, pair.AccessToken)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if !tokens.Blacklist().IsRevoked(pair.AccessToken) {
		t.Error("Expected the access token to be revoked")
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var got domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Expected email ada@example.com, got %s", got.Email)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestChangePassword_Success(t *testing.T) {
	e := echo.New()
	handler, authService, _ := newTestAuthHandler()

	user, _, err := authService.Register("ada@example.com", "Sup3rSecret", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"currentPassword":"Sup3rSecret","newPassword":"N3wSecret99"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID)

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	if _, err := authService.Login("ada@example.com", "N3wSecret99"); err != nil {
		t.Errorf("Expected new password to work, got %v", err)
	}
}
