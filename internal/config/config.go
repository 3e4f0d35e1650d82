// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	// Entry timestamps need named zones even on hosts without zoneinfo
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Server is the full server configuration
type Server struct {
	Host     string `env:"PNOTES_HOST"`
	Port     int    `env:"PNOTES_PORT"      envDefault:"8080"`
	LogLevel string `env:"PNOTES_LOG_LEVEL" envDefault:"info"`

	Storage        string `env:"PNOTES_STORAGE"          envDefault:"memory"`
	RedisURL       string `env:"PNOTES_REDIS_URL"        envDefault:"redis://localhost:6379"`
	SQLDriver      string `env:"PNOTES_SQL_DRIVER"       envDefault:"sqlite"`
	SQLDSN         string `env:"PNOTES_SQL_DSN"          envDefault:"pokernotes.db"`
	SQLAutoMigrate bool   `env:"PNOTES_SQL_AUTO_MIGRATE" envDefault:"true"`

	SessionTTL           time.Duration `env:"PNOTES_SESSION_TTL"            envDefault:"24h"`
	SessionCleanInterval time.Duration `env:"PNOTES_SESSION_CLEAN_INTERVAL" envDefault:"10m"`

	// TimeZone is the IANA zone entry timestamps are written in
	TimeZone string `env:"PNOTES_TIMEZONE" envDefault:"Asia/Tokyo"`
}

// Load parses the process environment
func Load() (Server, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Server, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot
func (c Server) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis, StorageSQL:
	default:
		return fmt.Errorf("invalid PNOTES_STORAGE %q: must be memory, redis or sql", c.Storage)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PNOTES_PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid PNOTES_SESSION_TTL %s", c.SessionTTL)
	}
	if c.SessionCleanInterval <= 0 {
		return fmt.Errorf("invalid PNOTES_SESSION_CLEAN_INTERVAL %s", c.SessionCleanInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone
func (c Server) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid PNOTES_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Level maps LogLevel to a slog level, defaulting to info
func (c Server) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
