// ABOUTME: Huma API server configuration and setup
// ABOUTME: Builds the chi router with CORS, request logging, feature flags and rate limiting

package api

import (
	"net/http"
	"time"

	"hackerhome-api/api/middleware"
	"hackerhome-api/core/interfaces"
	"hackerhome-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	// Title is the OpenAPI title
	Title = "HackerHome API"

	// DefaultVersion is used when Config.Version is empty
	DefaultVersion = "1.0.0"
)

// Config holds configuration for the API
type Config struct {
	Logger      interfaces.Logger
	Flags       featureflags.Manager
	RateLimit   int           // requests per window
	RateWindow  time.Duration // rate limit window
	CORSOrigins []string      // empty allows every origin
	Version     string
}

// Server is the assembled HTTP surface
type Server struct {
	API     huma.API
	Router  chi.Router
	limiter *middleware.RateLimiter
}

// NewAPI creates the router and Huma API with the middleware chain applied.
// Handlers register themselves on Server.API afterwards.
func NewAPI(cfg Config) *Server {
	router := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: len(cfg.CORSOrigins) > 0,
		MaxAge:           300,
	}))

	router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	router.Use(middleware.FeatureFlagsMiddleware(cfg.Flags))

	s := &Server{Router: router}
	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(s.limiter))
	}

	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	config := huma.DefaultConfig(Title, version)
	config.Info.Description = "Aggregated developer news from Hacker News, DEV, GitHub, Product Hunt and Medium"

	s.API = humachi.New(router, config)
	return s
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Close stops background work started by the middleware
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
