package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mlboard/backend/internal/config"
	domain "mlboard/backend/internal/domain/auth"
	"mlboard/backend/internal/infrastructure/token"
	usecase "mlboard/backend/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret-key-at-least-32-chars-long"
	testAdminEmail = "root@x.com"
)

// memoryUserRepo mirrors the postgres repository contract in memory.
type memoryUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailExists
	}
	stored := *user
	r.byEmail[user.Email] = &stored
	r.byID[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tokens := token.NewJWTManager(testSecret, 7*24*time.Hour, "mlboard-test")
	return newTestServerWith(t, newMemoryUserRepo(), tokens)
}

func newTestServerWith(t *testing.T, repo domain.UserRepository, tokens usecase.TokenManager) *Server {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>mlboard</html>"), 0o600))

	cfg := config.Config{
		HTTPPort:        "8080",
		JWTSecret:       testSecret,
		JWTIssuer:       "mlboard-test",
		SessionTTL:      7 * 24 * time.Hour,
		AdminEmail:      testAdminEmail,
		Environment:     "test",
		StaticDir:       staticDir,
		AllowedOrigins:  []string{"*"},
		ReadTimeoutSec:  5,
		WriteTimeoutSec: 5,
		IdleTimeoutSec:  5,
	}

	svc := usecase.NewService(repo, tokens, cfg.AdminEmail)
	return NewServer(cfg, svc, tokens)
}

func doJSON(t *testing.T, s *Server, method, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", SessionCookieName)
	return nil
}

func decodeUserResponse(t *testing.T, rec *httptest.ResponseRecorder) userResponse {
	t.Helper()
	var resp userResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSignup(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "longpassword1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeUserResponse(t, rec)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, "ada@x.com", resp.User.Email)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.User.ID)

	// The raw body must never carry the hash under any key.
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := sessionCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Secure, "secure flag stays off outside production")
	assert.NotEmpty(t, cookie.Value)
}

func TestSignup_AdminEmailGetsAdminRole(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Root", "email": testAdminEmail, "password": "longpassword1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.RoleAdmin, decodeUserResponse(t, rec).User.Role)
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing name", map[string]string{"email": "a@x.com", "password": "pw"}},
		{"missing email", map[string]string{"name": "Ada", "password": "pw"}},
		{"missing password", map[string]string{"name": "Ada", "email": "a@x.com"}},
		{"empty payload", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	payload := map[string]string{"name": "Ada", "email": "ada@x.com", "password": "longpassword1"}

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/auth/signup", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "longpassword1",
	})

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@x.com", "password": "longpassword1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeUserResponse(t, rec)
	require.NotNil(t, resp.User)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
	assert.NotEmpty(t, sessionCookieFrom(t, rec).Value)
}

func TestLogin_GenericUnauthorized(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "longpassword1",
	})

	wrongPassword := doJSON(t, s, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@x.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, s, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "longpassword1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical bodies: nothing distinguishes the two failure causes.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	// Logged out: still a 200 with a null user.
	rec := doJSON(t, s, http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	// Garbage cookie reads the same as no cookie.
	rec = doJSON(t, s, http.MethodGet, "/api/auth/user", nil, &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	// Logged in: the cookie resolves to the public projection.
	signup := doJSON(t, s, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "longpassword1",
	})
	cookie := sessionCookieFrom(t, signup)

	rec = doJSON(t, s, http.MethodGet, "/api/auth/user", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User *domain.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@x.com", resp.User.Email)
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookieFrom(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthEndpoints_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	tests := []struct {
		path   string
		method string
	}{
		{"/api/auth/signup", http.MethodGet},
		{"/api/auth/login", http.MethodGet},
		{"/api/auth/user", http.MethodPost},
		{"/api/auth/logout", http.MethodGet},
	}
	for _, tt := range tests {
		rec := doJSON(t, s, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
	}
}
