package service

import (
	"net/mail"
	"strings"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// AuthService handles registration, login, and account management
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// Register creates a new user account and issues its first token pair so
// the client is logged in right after sign-up
func (s *AuthService) Register(email, password string, fullName *string) (*domain.User, *TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.Create(&domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords both map to ErrInvalidCredentials so the response does not
// reveal which accounts exist.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return s.tokens.IssuePair(user.ID)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The used
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	s.tokens.Revoke(refreshToken)
	return s.tokens.IssuePair(userID)
}

// Logout revokes the presented access token
func (s *AuthService) Logout(accessToken string) {
	s.tokens.Revoke(accessToken)
}

// GetProfile retrieves the current user's profile
func (s *AuthService) GetProfile(userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile updates the user's email and full name
func (s *AuthService) UpdateProfile(userID int32, email string, fullName *string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.FullName = fullName

	return s.userRepo.Update(user)
}

// ChangePassword verifies the current password and replaces it with a new one
func (s *AuthService) ChangePassword(userID int32, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	ok, err := verifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}

	if newPassword == currentPassword {
		return domain.ErrPasswordUnchanged
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(userID, hash)
}
