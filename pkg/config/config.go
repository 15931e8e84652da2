package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the full application configuration surface.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Ledger LedgerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DBConfig holds the SQLite data source.
type DBConfig struct {
	Path string
}

// LedgerConfig holds bookkeeping options.
type LedgerConfig struct {
	// InitialCapital is the business's starting capital, the base of every
	// available-funds computation.
	InitialCapital decimal.Decimal
	// RevalueSchedule is the cron spec for the periodic balance revaluation.
	RevalueSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	capital, err := decimal.NewFromString(getenvWithDefault("LENDBOOK_INITIAL_CAPITAL", "15000000"))
	if err != nil {
		return nil, fmt.Errorf("LENDBOOK_INITIAL_CAPITAL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("LENDBOOK_PORT", "8080"),
		},
		DB: DBConfig{
			Path: getenvWithDefault("LENDBOOK_DB_PATH", "lendbook.db"),
		},
		Ledger: LedgerConfig{
			InitialCapital:  capital,
			RevalueSchedule: getenvWithDefault("LENDBOOK_REVALUE_SCHEDULE", "@every 1m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("LENDBOOK_PORT must not be empty")
	}
	if c.DB.Path == "" {
		return errors.New("LENDBOOK_DB_PATH must not be empty")
	}
	if c.Ledger.InitialCapital.IsNegative() {
		return errors.New("LENDBOOK_INITIAL_CAPITAL must not be negative")
	}
	if c.Ledger.RevalueSchedule == "" {
		return errors.New("LENDBOOK_REVALUE_SCHEDULE must not be empty")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
