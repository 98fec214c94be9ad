package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	domain "mlboard/backend/internal/domain/auth"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, status, recorder.size, time.Since(start))
	})
}

func withCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && isOriginAllowed(origin, allowedOrigins) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		} else if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isOriginAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" {
			return true
		}
		if strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

type ctxKeyUser struct{}

// AuthRequired gates data endpoints. Unlike the page gatekeeper it resolves
// the session to the live user record, so a stale role or a deleted account
// is caught on every call.
func (s *Server) AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authService.CurrentUser(r.Context(), sessionToken(r))
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin layers an admin check on top of AuthRequired.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return s.AuthRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUserFromContext(r.Context())
		if user == nil || user.Role != domain.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// CurrentUserFromContext returns the live user attached by AuthRequired.
func CurrentUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser{}).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
