package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL, when set, is used verbatim as the connection string and the
	// discrete fields below are ignored. Deployments mount it as DB_URL.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN returns the connection string for lib/pq.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config is the shared configuration for the pvmail CLIs.
type Config struct {
	Database DatabaseConfig

	Export struct {
		OutDir string // directory the per-table record files are written to
		Format string // "json" (default) or "xlsx"
	}

	Launcher struct {
		// Executable is the external alerting program to hand off to.
		Executable string
		// SecretsDir is probed for mounted credential files before the
		// environment values are used.
		SecretsDir string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from the environment, with local-dev defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.URL = getEnv("DB_URL", "")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "pvmail")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "4"), 4)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	cfg.Export.OutDir = getEnv("EXPORT_DIR", ".")
	cfg.Export.Format = getEnv("EXPORT_FORMAT", "json")

	cfg.Launcher.Executable = getEnv("MAILER_BIN", "pv-mailer")
	cfg.Launcher.SecretsDir = getEnv("SECRETS_DIR", "/run/secrets")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}
