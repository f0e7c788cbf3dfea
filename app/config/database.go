package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"tasktracker/app/store"

	"github.com/go-sql-driver/mysql"
)

// DSN builds the driver-specific connection string.
func (s StoreConfig) DSN() (string, error) {
	switch s.Driver {
	case store.DriverPostgres:
		port := s.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(s.Host, strconv.Itoa(port)),
			Path:   "/" + s.Name,
		}
		if s.User != "" {
			u.User = url.UserPassword(s.User, s.Password)
		}
		if s.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {s.SSLMode}}.Encode()
		}
		return u.String(), nil

	case store.DriverMySQL:
		port := s.Port
		if port == 0 {
			port = 3306
		}
		c := mysql.NewConfig()
		c.User = s.User
		c.Passwd = s.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(s.Host, strconv.Itoa(port))
		c.DBName = s.Name
		return c.FormatDSN(), nil

	case store.DriverSQLite:
		if s.Path == ":memory:" {
			return s.Path, nil
		}
		return "file:" + s.Path + "?_busy_timeout=5000", nil

	default:
		return "", fmt.Errorf("unknown store driver %q", s.Driver)
	}
}

// InitStore opens the configured store and checks that it is reachable.
func InitStore(ctx context.Context, cfg StoreConfig) (store.TaskStore, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == store.DriverPostgres {
		// Validate keeps MaxConns within int32.
		return store.OpenPostgres(ctx, dsn, int32(cfg.MaxConns))
	}
	return store.OpenSQL(ctx, cfg.Driver, dsn, cfg.MaxConns)
}
