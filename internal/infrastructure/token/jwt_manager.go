package token

import (
	"time"

	domain "mlboard/backend/internal/domain/auth"
	usecase "mlboard/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime used when no explicit TTL is configured.
// Tokens are never minted without an expiry.
const DefaultTTL = 7 * 24 * time.Hour

// JWTManager issues and verifies HS256 session tokens.
type JWTManager struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	nowFunc func() time.Time
}

// NewJWTManager constructs a manager. A non-positive ttl falls back to
// DefaultTTL so that every minted token expires.
func NewJWTManager(secret string, ttl time.Duration, issuer string) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTManager{
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  issuer,
		nowFunc: time.Now,
	}
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims is the wire shape of a session token: identity, email and role
// copied verbatim from the user at mint time, plus the registered set.
type Claims struct {
	UserID string          `json:"uid"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user.
func (m *JWTManager) Issue(user *domain.User) (string, error) {
	now := m.nowFunc().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates the token. It never returns an error: any
// failure, whatever the cause, reads as "no session".
func (m *JWTManager) Verify(tokenString string) (*usecase.SessionClaims, bool) {
	if tokenString == "" {
		return nil, false
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowFunc))
	if err != nil {
		return nil, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, false
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleUser
	}

	return &usecase.SessionClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, true
}
