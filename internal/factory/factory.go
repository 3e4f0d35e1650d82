package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/pokernotes/internal/config"
	"github.com/mcoot/pokernotes/internal/dependencies/clock"
	"github.com/mcoot/pokernotes/internal/dependencies/random"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/services/auth"
	"github.com/mcoot/pokernotes/internal/services/players"
	"github.com/mcoot/pokernotes/internal/services/profiles"
	"github.com/mcoot/pokernotes/internal/storage"
	"github.com/mcoot/pokernotes/internal/storage/memory"
	redisstorage "github.com/mcoot/pokernotes/internal/storage/redis"
	"github.com/mcoot/pokernotes/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQL    = config.StorageSQL
)

// pinger is implemented by stores with a remote connection
type pinger interface {
	Ping(ctx context.Context) error
}

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Metrics *metrics.Metrics

	// Services
	AuthService    *auth.Service
	ProfileService *profiles.Service
	PlayerService  *players.Service

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// PlayerConfig holds configuration for the player service (optional)
	PlayerConfig players.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sql")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "sql")
	SQLConfig *sqlstore.Config
}

// ConfigFromServer builds a factory Config from environment settings
func ConfigFromServer(srv config.Server, logger *slog.Logger) (Config, error) {
	loc, err := srv.Location()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AuthConfig: auth.Config{SessionDuration: srv.SessionTTL},
		PlayerConfig: players.Config{
			Location:    loc,
			MaxAttempts: players.DefaultMaxAttempts,
		},
		Logger:      logger,
		StorageType: srv.Storage,
	}

	switch srv.Storage {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = srv.RedisURL
		cfg.RedisConfig = &redisCfg
	case StorageTypeSQL:
		cfg.SQLConfig = &sqlstore.Config{
			Driver:      srv.SQLDriver,
			DSN:         srv.SQLDSN,
			AutoMigrate: srv.SQLAutoMigrate,
		}
	}
	return cfg, nil
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store, closer = redisStore, redisStore
	case StorageTypeSQL:
		if cfg.SQLConfig == nil {
			return nil, errors.New("SQLConfig required when StorageType is sql")
		}
		sqlStore, err := sqlstore.Open(*cfg.SQLConfig)
		if err != nil {
			return nil, fmt.Errorf("open sql store: %w", err)
		}
		store, closer = sqlStore, sqlStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sql'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, metrics.New(), authCfg, cfg.PlayerConfig, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	m *metrics.Metrics,
	authCfg auth.Config,
	playerCfg players.Config,
	logger *slog.Logger,
) *App {
	// Create services
	profileService := profiles.New(store, clk, rnd, logger)
	authService := auth.New(store, profileService, clk, rnd, m, logger, authCfg)
	playerService := players.New(store, profileService, clk, rnd, m, logger, playerCfg)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Metrics:        m,
		AuthService:    authService,
		ProfileService: profileService,
		PlayerService:  playerService,
	}
}

// HealthCheck pings the store when it has a connection to check
func (a *App) HealthCheck(ctx context.Context) error {
	if p, ok := a.Storage.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// RunSessionCleaner removes expired sessions every interval until ctx is done
func (a *App) RunSessionCleaner(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.AuthService.CleanExpiredSessions(); removed > 0 {
				logger.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}

// Close releases the store connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
