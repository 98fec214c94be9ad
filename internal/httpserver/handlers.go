package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domain "mlboard/backend/internal/domain/auth"
)

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/api/auth/signup", http.HandlerFunc(s.handleSignup))
	s.router.Handle("/api/auth/login", http.HandlerFunc(s.handleLogin))
	s.router.Handle("/api/auth/user", http.HandlerFunc(s.handleCurrentUser))
	s.router.Handle("/api/auth/logout", http.HandlerFunc(s.handleLogout))

	// Dashboard pages. The gatekeeper wraps the whole handler chain, so
	// protected prefixes are checked before any file is served.
	s.router.Handle("/", http.FileServer(http.Dir(s.staticDir)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	token, user, err := s.authService.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			writeMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailExists):
			writeMessage(w, http.StatusConflict, err.Error())
		default:
			writeMessage(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	s.cookies.set(w, token)
	writeJSON(w, http.StatusCreated, userResponse{Message: "signup successful", User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	token, user, err := s.authService.Login(r.Context(), domain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Same status and body whether the email is unknown or the
			// password is wrong.
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		} else {
			writeMessage(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	s.cookies.set(w, token)
	writeJSON(w, http.StatusOK, userResponse{Message: "login successful", User: user})
}

// handleCurrentUser is polled by the UI on every page load. Being logged out
// is a normal answer, so it always responds 200 with a possibly-null user.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	user, err := s.authService.CurrentUser(r.Context(), sessionToken(r))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]*domain.User{"user": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	s.cookies.clear(w)
	writeMessage(w, http.StatusOK, "logged out")
}
