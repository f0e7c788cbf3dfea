// Package store persists tasks in a single relational table.
package store

import (
	"context"

	"tasktracker/app/models"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// TaskStore is the persistence contract the service layer depends on.
// Every method maps onto a single parameterized statement (or, where the
// dialect has no RETURNING clause, a write followed by a read on the same
// connection).
type TaskStore interface {
	// List returns every task ordered by ascending id.
	List(ctx context.Context) ([]models.Task, error)
	// Get returns models.ErrTaskNotFound when no row has the id.
	Get(ctx context.Context, id int64) (models.Task, error)
	// Insert stores a new task with completed=false and returns it with its generated id.
	Insert(ctx context.Context, title string) (models.Task, error)
	// SetCompleted returns models.ErrTaskNotFound when no row has the id.
	SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error)
	// Delete succeeds whether or not a row matched.
	Delete(ctx context.Context, id int64) error

	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
