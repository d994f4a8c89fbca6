// Package mockapi is an in-memory stand-in for the SiteCraft backend. It
// speaks the same HTTP contract (auth, projects, AI generation, history) so
// the client can be developed and tested without the real service or an AI
// provider. Generated pages are deterministic templates built from the
// prompt.
package mockapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// Prefix is the API mount point (default "/api").
	Prefix string
	// GenerationDelay makes generate/regenerate take at least this long.
	GenerationDelay time.Duration
	EnableCORS      bool
	ReadTimeout     time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:        "127.0.0.1:5000",
		Prefix:      "/api",
		EnableCORS:  true,
		ReadTimeout: 30 * time.Second,
	}
}

// Server is the fake backend.
type Server struct {
	config  *Config
	router  *chi.Mux
	httpSrv *http.Server
	state   *state
	faults  *faults
	log     zerolog.Logger
}

// New creates a new Server.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "/api"
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		state:  newState(),
		faults: newFaults(),
		log:    logging.Component("mockapi"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.httpSrv = &http.Server{
		Handler:     s.router,
		ReadTimeout: cfg.ReadTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	// The backend answers with or without a trailing slash.
	s.router.Use(middleware.StripSlashes)
	s.router.Use(s.requestLogger)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	s.router.Use(s.faults.middleware)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("duration", time.Since(start)).
			Msg("handled")
	})
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Str("prefix", s.config.Prefix).Msg("mock API listening")
	err := s.httpSrv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
