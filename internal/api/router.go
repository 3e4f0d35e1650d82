package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernotes/internal/api/handler"
	"github.com/mcoot/pokernotes/internal/api/middleware"
	"github.com/mcoot/pokernotes/internal/api/response"
	"github.com/mcoot/pokernotes/internal/metrics"
	sharedmw "github.com/mcoot/pokernotes/internal/middleware"
	"github.com/mcoot/pokernotes/internal/services/auth"
	"github.com/mcoot/pokernotes/internal/services/players"
	"github.com/mcoot/pokernotes/internal/services/profiles"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AuthService    *auth.Service
	PlayerService  *players.Service
	ProfileService *profiles.Service
	// HealthCheck reports whether the backing store is reachable (optional)
	HealthCheck func(ctx context.Context) error
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	metricsMiddleware := sharedmw.Metrics(cfg.Metrics)

	// Prometheus exposition, outside the API prefix
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(metricsMiddleware)

	// Auth routes (no session required to sign up or in)
	api.HandleFunc("/auth/signup", authHandler.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", authHandler.SignIn).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/signout", authHandler.SignOut).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Player routes (all require auth)
	playerRoutes := api.PathPrefix("/players").Subrouter()
	playerRoutes.Use(authMiddleware)
	playerRoutes.HandleFunc("", playerHandler.List).Methods(http.MethodGet)
	playerRoutes.HandleFunc("", playerHandler.Create).Methods(http.MethodPost)
	playerRoutes.HandleFunc("/by-game/{gameID}", playerHandler.GetByGameID).Methods(http.MethodGet)
	playerRoutes.HandleFunc("/{id}", playerHandler.Get).Methods(http.MethodGet)
	playerRoutes.HandleFunc("/{id}", playerHandler.Edit).Methods(http.MethodPatch)

	statsRoutes := api.PathPrefix("/stats").Subrouter()
	statsRoutes.Use(authMiddleware)
	statsRoutes.HandleFunc("", playerHandler.Stats).Methods(http.MethodGet)

	// Profile routes (all require auth)
	profileRoutes := api.PathPrefix("/profiles").Subrouter()
	profileRoutes.Use(authMiddleware)
	profileRoutes.HandleFunc("", profileHandler.List).Methods(http.MethodGet)
	profileRoutes.HandleFunc("/me", profileHandler.Rename).Methods(http.MethodPatch)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.HealthCheck)).Methods(http.MethodGet)

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable", Error: err.Error()})
				return
			}
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}
