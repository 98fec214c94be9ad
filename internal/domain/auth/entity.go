package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. One message covers both
	// the unknown-email and wrong-password cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrMissingFields indicates an incomplete registration payload.
	ErrMissingFields = errors.New("name, email and password are required")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
)

// UserRole identifies the privileges assigned to a user.
type UserRole string

const (
	// RoleUser represents a standard dashboard user.
	RoleUser UserRole = "user"
	// RoleAdmin represents an administrative user.
	RoleAdmin UserRole = "admin"
)

// User models the account entity persisted in storage. PasswordHash never
// serializes; responses carry the public projection only.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Email    string
	Password string
}
