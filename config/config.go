package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port              string
	DBDriver          string
	PostgresURL       string
	SQLitePath        string
	JWTSecret         string
	TokenTTL          time.Duration
	LogLevel          string
	LogFormat         string
	GinMode           string
	CategoryRulesFile string
}

// Load reads the configuration from the process environment. Callers that
// want a .env file loaded do so before calling Load.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		SQLitePath:        getenv("SQLITE_PATH", "fin.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "console"),
		GinMode:           os.Getenv("GIN_MODE"),
		CategoryRulesFile: os.Getenv("CATEGORY_RULES_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_URL is required when DB_DRIVER is %q", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
