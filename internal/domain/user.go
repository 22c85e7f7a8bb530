package domain

import "time"

// User represents a registered user
type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     *string   `json:"fullName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id int32) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(user *User) (*User, error)
	UpdatePassword(id int32, passwordHash string) error
}
