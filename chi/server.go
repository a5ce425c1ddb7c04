// Package chi serves the logo API over HTTP using the chi router.
package chi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/logofetch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config is resolved once at startup and never modified afterwards.
type Config struct {
	// Production hides error details from responses and restricts CORS to
	// AllowedOrigins.
	Production     bool
	AllowedOrigins []string

	// RateLimit is the sustained requests per second allowed per client on
	// the logo endpoint. Zero disables limiting.
	RateLimit float64
	RateBurst int

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// Server timeouts. The write timeout covers a full pipeline run.
const (
	ReadHeaderTimeout = 10 * time.Second
	WriteTimeout      = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Server is the HTTP API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	config  Config
	logos   logofetch.LogoService
	auth    logofetch.Authenticator
	logger  *slog.Logger
	limiter *ClientLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithAuthenticator requires an authenticated identity on the logo endpoint.
// Without it the endpoint is open.
func WithAuthenticator(a logofetch.Authenticator) Option {
	return func(s *Server) {
		s.auth = a
	}
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a Server answering logo lookups with logos.
func NewServer(logos logofetch.LogoService, cfg Config, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		logos:  logos,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewClientLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			if s.limiter != nil {
				r.Use(s.limiter.Middleware)
			}
			r.Get("/logos", s.handleLogos)
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
		})
	})

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
	}
	return s
}

// Handler returns the root handler. Useful with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open starts listening on addr and serves in the background.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Addr returns the listening address once Open succeeded.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) allowedOrigins() []string {
	if !s.config.Production || len(s.config.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.config.AllowedOrigins
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogos(w http.ResponseWriter, r *http.Request) {
	result, err := s.logos.FindLogos(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
