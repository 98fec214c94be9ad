package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mlboard/backend/internal/config"
	usecase "mlboard/backend/internal/usecase/auth"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer  *http.Server
	router      *http.ServeMux
	authService *usecase.Service
	cookies     *cookieWriter
	staticDir   string
	addr        string
}

// NewServer constructs a new Server with configured dependencies. The
// gatekeeper sits between the outer middleware and the mux so protected page
// prefixes are authorized before any routing happens.
func NewServer(cfg config.Config, authService *usecase.Service, tokens usecase.TokenManager) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	gate := newGatekeeper(tokens)
	handler := withLogging(withCORS(gate.guard(mux), cfg.AllowedOrigins))

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:      mux,
		authService: authService,
		cookies:     newCookieWriter(cfg.IsProduction(), cfg.SessionTTL),
		staticDir:   cfg.StaticDir,
		addr:        addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full middleware chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
