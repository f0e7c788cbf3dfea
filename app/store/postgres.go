package store

import (
	"context"
	"errors"
	"fmt"

	"tasktracker/app/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS tasks (
    id        BIGSERIAL PRIMARY KEY,
    title     VARCHAR(255) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
)`

// PostgresStore implements TaskStore on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ TaskStore = (*PostgresStore)(nil)

// NewPostgresStore wraps an already configured pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres creates a pool for dsn and verifies it can reach the server.
func OpenPostgres(ctx context.Context, dsn string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// EnsureSchema creates the tasks table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure task schema: %w", err)
	}
	return nil
}

// List retrieves all tasks in id order.
func (s *PostgresStore) List(ctx context.Context) ([]models.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, "SELECT id, title, completed FROM tasks ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get retrieves a single task by its id.
func (s *PostgresStore) Get(ctx context.Context, id int64) (models.Task, error) {
	return s.queryOne(ctx, id, "SELECT id, title, completed FROM tasks WHERE id = $1", id)
}

// Insert adds a new task and returns the stored row.
func (s *PostgresStore) Insert(ctx context.Context, title string) (models.Task, error) {
	return s.queryOne(ctx, 0,
		"INSERT INTO tasks (title) VALUES ($1) RETURNING id, title, completed",
		title,
	)
}

// SetCompleted updates the completion flag of a task.
func (s *PostgresStore) SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error) {
	return s.queryOne(ctx, id,
		"UPDATE tasks SET completed = $1 WHERE id = $2 RETURNING id, title, completed",
		completed, id,
	)
}

// Delete removes a task if present.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Ping checks that the pool can reach the server.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) queryOne(ctx context.Context, id int64, query string, args ...any) (models.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return models.Task{}, postgresError(err)
	}
	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Task])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, models.NotFound(id)
	}
	if err != nil {
		return models.Task{}, postgresError(err)
	}
	return task, nil
}

// postgresError maps constraint failures onto models.ErrInvalidTask.
func postgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "22001": // not_null_violation, string_data_right_truncation
			return models.Invalidf("%s", pgErr.Message)
		}
	}
	return fmt.Errorf("postgres: %w", err)
}
