package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/service"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"fullName,omitempty"`
}

// RegisterResponse carries the created account and its first token pair
type RegisterResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"fullName,omitempty"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register godoc
// @Summary Register a new user
// @Description Create a new user account and log it in with a fresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, pair, err := h.authService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			return NewValidationError(c, "Invalid email address", []ValidationError{
				{Field: "email", Message: "Must be a valid email address"},
			})
		case errors.Is(err, domain.ErrPasswordTooWeak):
			return NewValidationError(c, "Password does not meet requirements", []ValidationError{
				{Field: "password", Message: "Must be at least 8 characters with an uppercase letter and a digit"},
			})
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		}
		log.Error().Err(err).Msg("Failed to register user")
		return NewInternalError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		User:   user,
		Tokens: pair,
	})
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and issue an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Failed to log in")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Exchange a refresh token for a fresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh request"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} ProblemDetails
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.RefreshToken == "" {
		return NewValidationError(c, "Refresh token is required", []ValidationError{
			{Field: "refreshToken", Message: "Required"},
		})
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) ||
			errors.Is(err, service.ErrNotRefreshToken) ||
			errors.Is(err, service.ErrTokenRevoked) {
			return NewUnauthorizedError(c, "Invalid refresh token")
		}
		log.Error().Err(err).Msg("Failed to refresh tokens")
		return NewInternalError(c, "Failed to refresh tokens")
	}

	return c.JSON(http.StatusOK, pair)
}

// Logout godoc
// @Summary Log out
// @Description Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} ProblemDetails
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.GetRawToken(c)
	if token == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	h.authService.Logout(token)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me godoc
// @Summary Get current user
// @Description Retrieve the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user
// @Description Update the authenticated user's email and full name
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile update request"
// @Success 200 {object} domain.User
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.UpdateProfile(userID, req.Email, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			return NewValidationError(c, "Invalid email address", []ValidationError{
				{Field: "email", Message: "Must be a valid email address"},
			})
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Description Verify the current password and replace it
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Password change request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewUnauthorizedError(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrPasswordUnchanged):
			return NewValidationError(c, "New password must differ from current password", []ValidationError{
				{Field: "newPassword", Message: "Must differ from current password"},
			})
		case errors.Is(err, domain.ErrPasswordTooWeak):
			return NewValidationError(c, "Password does not meet requirements", []ValidationError{
				{Field: "newPassword", Message: "Must be at least 8 characters with an uppercase letter and a digit"},
			})
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to change password")
		return NewInternalError(c, "Failed to change password")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed"})
}
