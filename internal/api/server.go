// Package api provides the HTTP API server and handlers for the massi5
// lunch-log backend.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/config"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/http/response"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/ratelimit"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store               Pinger
	services            *Services
	router              *chi.Mux
	api                 huma.API
	logger              *slog.Logger
	authRateLimiter     *RateLimiter
	reactionRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store Pinger, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		store:               store,
		services:            services,
		router:              chi.NewRouter(),
		logger:              logger,
		authRateLimiter:     ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		reactionRateLimiter: ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	s.setupMiddleware(cfg.Server)
	s.api = humachi.New(s.router, newHumaConfig())
	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background limiter cleanup.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
	s.reactionRateLimiter.Stop()
}

func newHumaConfig() huma.Config {
	humaConfig := huma.DefaultConfig("massi5 API", APIVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	return humaConfig
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(cfg config.ServerConfig) {
	allowedOrigins := cfg.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		// Rewrites RemoteAddr, which the auth limiter keys on.
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(metricsMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           300,
	}))
	s.router.Use(authMiddleware(s.services.Auth, s.logger))

	// Auth endpoints are unauthenticated, so they are limited per client IP.
	s.router.Use(func(next http.Handler) http.Handler {
		limited := RateLimitMiddleware(s.authRateLimiter, "auth", s.logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isAuthPath(r.URL.Path) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

// setupRoutes registers all operations.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerLunchRecordRoutes()
	s.registerFeedRoutes()
	s.registerReactionRoutes()
	s.registerReportRoutes()
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}
