// Package config loads runtime settings for the task tracker.
package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"tasktracker/app/store"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults applied before the config file, environment and flags.
const (
	DefaultHTTPAddr        = ":3000"
	DefaultConfigFile      = "tasktracker.toml"
	DefaultEnvFile         = ".env"
	DefaultSQLitePath      = "tasks.db"
	DefaultMaxConns        = 10
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds every setting the server reads at startup.
type Config struct {
	HTTPAddr        string        `toml:"http_addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	Store           StoreConfig   `toml:"store"`
	Log             LogConfig     `toml:"log"`
}

// StoreConfig describes how to reach the task table.
type StoreConfig struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Name     string `toml:"name"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"sslmode"`
	Path     string `toml:"path"`
	MaxConns int    `toml:"max_conns"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func setDefaults(cfg *Config) {
	cfg.HTTPAddr = DefaultHTTPAddr
	cfg.ShutdownTimeout = DefaultShutdownTimeout
	cfg.Store = StoreConfig{
		Driver:   store.DriverPostgres,
		Host:     "localhost",
		SSLMode:  "prefer",
		Path:     DefaultSQLitePath,
		MaxConns: DefaultMaxConns,
	}
	cfg.Log = LogConfig{Level: "info", Format: "text"}
}

// Load builds a Config in priority order:
// 1. Defaults
// 2. Config file (-config, or tasktracker.toml in the working directory)
// 3. .env file (-env-file); never overrides variables already set
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	configFile := fs.String("config", "", "path to a TOML config file")
	envFile := fs.String("env-file", DefaultEnvFile, "path to a .env file")
	addr := fs.String("addr", "", "HTTP listen address")
	driver := fs.String("db-driver", "", "store driver: postgres, mysql or sqlite3")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &Config{}
	setDefaults(cfg)

	path, explicit := *configFile, *configFile != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadConfigFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.HTTPAddr = *addr
		case "db-driver":
			cfg.Store.Driver = *driver
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is empty")
	}
	switch c.Store.Driver {
	case store.DriverPostgres, store.DriverMySQL:
		if c.Store.Name == "" {
			return fmt.Errorf("store: database name is required for %s", c.Store.Driver)
		}
	case store.DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store: path is required for sqlite3")
		}
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}
	if c.Store.MaxConns <= 0 || c.Store.MaxConns > math.MaxInt32 {
		return fmt.Errorf("store: max_conns must be between 1 and %d, got %d", math.MaxInt32, c.Store.MaxConns)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
