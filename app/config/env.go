package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Store.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.Store.Port = port
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Store.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Store.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.Store.SSLMode = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_MAX_CONNS: %w", err)
		}
		cfg.Store.MaxConns = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}
