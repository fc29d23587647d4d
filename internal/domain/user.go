package domain

import (
	"context"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCreate contains signup input
type UserCreate struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserUpdate contains profile edit input. The password pair is optional;
// setting a new password requires the current one to match.
type UserUpdate struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// UserLogin contains login input
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	// GetByEmail returns (nil, nil) when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)

	EmailExists(ctx context.Context, email string) (bool, error)

	Update(ctx context.Context, user *User) error
}
