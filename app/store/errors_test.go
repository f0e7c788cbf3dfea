package store

import (
	"errors"
	"fmt"
	"testing"

	"tasktracker/app/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestPostgresErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantInvalid bool
	}{
		{"not null violation", &pgconn.PgError{Code: "23502", Message: `null value in column "title"`}, true},
		{"value too long", &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(255)"}, true},
		{"wrapped too long", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := postgresError(tt.err)
			if got := errors.Is(err, models.ErrInvalidTask); got != tt.wantInvalid {
				t.Errorf("errors.Is(%v, ErrInvalidTask): got %v, want %v", err, got, tt.wantInvalid)
			}
			if !tt.wantInvalid && !errors.Is(err, tt.err) {
				t.Errorf("postgresError dropped the cause: %v", err)
			}
		})
	}
}

func TestSQLErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		err         error
		wantInvalid bool
	}{
		{"mysql null column", DriverMySQL, &mysql.MySQLError{Number: 1048, Message: "Column 'title' cannot be null"}, true},
		{"mysql data too long", DriverMySQL, &mysql.MySQLError{Number: 1406, Message: "Data too long for column 'title'"}, true},
		{"mysql duplicate key", DriverMySQL, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"sqlite not null", DriverSQLite, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, true},
		{"sqlite busy", DriverSQLite, sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"plain error", DriverSQLite, errors.New("disk I/O error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SQLStore{driver: tt.driver}
			err := s.mapError(tt.err)
			if got := errors.Is(err, models.ErrInvalidTask); got != tt.wantInvalid {
				t.Errorf("errors.Is(%v, ErrInvalidTask): got %v, want %v", err, got, tt.wantInvalid)
			}
			if !tt.wantInvalid && !errors.Is(err, tt.err) {
				t.Errorf("mapError dropped the cause: %v", err)
			}
		})
	}
}
