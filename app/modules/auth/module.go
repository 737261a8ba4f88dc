package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	authhandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/archery-scorer/config"
)

// Module issues and checks archer tokens and provides the HTTP guard middleware.
type Module struct {
	provider       authjwt.Provider
	limiter        *authhandlers.IPRateLimiter
	allowedOrigins []string
	logger         *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(cfg *config.Config, logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT secret is empty; every bearer token will be rejected")
	}
	return &Module{
		provider:       authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		limiter:        authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		allowedOrigins: cfg.HTTP.AllowedOrigins,
		logger:         logger,
	}
}

// Provider returns the token provider.
func (m *Module) Provider() authjwt.Provider {
	return m.provider
}

// Edge returns the middleware applied to every API request: CORS, then rate limiting.
func (m *Module) Edge() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.allowedOrigins),
		authhandlers.RateLimitMiddleware(m.limiter),
	}
}

// RequireArcher is the bearer token guard.
func (m *Module) RequireArcher() func(http.Handler) http.Handler {
	return authhandlers.BearerAuthMiddleware(m.provider)
}

// RegisterRoutes mounts the auth endpoints.
func (m *Module) RegisterRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(m.RequireArcher())
		r.Get("/me", authhandlers.MeHandler)
	})
	m.logger.Info("Auth routes registered")
}
