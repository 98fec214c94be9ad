package auth

import "context"

// UserRepository defines persistence operations for accounts. The session
// core never updates or deletes users; account management lives elsewhere.
type UserRepository interface {
	// Create inserts a new user. Returns ErrEmailExists when the email is
	// already taken; the store's uniqueness constraint is the enforcement
	// point, so concurrent registrations race safely.
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
