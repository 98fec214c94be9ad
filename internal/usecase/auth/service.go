package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "mlboard/backend/internal/domain/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service coordinates the session workflows between domain and infrastructure.
type Service struct {
	users      domain.UserRepository
	tokens     TokenManager
	adminEmail string
	nowFunc    func() time.Time
}

// NewService constructs an auth service. adminEmail is the single address
// that receives the admin role at registration time.
func NewService(users domain.UserRepository, tokens TokenManager, adminEmail string) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		adminEmail: adminEmail,
		nowFunc:    time.Now,
	}
}

// Register creates a new user, mints a session token for it and returns both.
// The returned user carries no password hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	role := domain.RoleUser
	if email == s.adminEmail {
		role = domain.RoleAdmin
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store's unique index decides races between concurrent
	// registrations; no pre-check can.
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeUser(user), nil
}

// Login validates credentials and returns a fresh token plus the user.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeUser(user), nil
}

// CurrentUser resolves the ambient session token to its live user record.
// Absent, invalid and expired tokens all yield (nil, nil): being logged out
// is a normal state, not an error. A valid token whose user no longer exists
// also yields (nil, nil).
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, ok := s.tokens.Verify(token)
	if !ok {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}
