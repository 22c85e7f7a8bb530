package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrRecurringNotFound    = errors.New("recurring expense not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrBudgetAlreadyExists  = errors.New("budget already exists for category")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum")
	ErrInvalidLimit         = errors.New("monthly limit must be positive")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrDateInFuture         = errors.New("expense date cannot be in the future")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooWeak      = errors.New("password does not meet requirements")
	ErrPasswordUnchanged    = errors.New("new password must differ from current password")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrReceiptNotFound      = errors.New("expense has no receipt")
)
