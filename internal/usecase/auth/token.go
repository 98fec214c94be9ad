package auth

import domain "mlboard/backend/internal/domain/auth"

// SessionClaims is the identity a verified session token carries. Role is
// trusted as-is for page routing; data endpoints re-fetch the live user.
type SessionClaims struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// TokenManager abstracts session token issuance and verification.
type TokenManager interface {
	Issue(user *domain.User) (string, error)
	// Verify is total: any failure (malformed, tampered, wrong secret,
	// expired) yields (nil, false). Callers cannot tell the cases apart.
	Verify(token string) (*SessionClaims, bool)
}
