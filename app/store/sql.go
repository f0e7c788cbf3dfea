package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tasktracker/app/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var sqlSchemas = map[string]string{
	DriverMySQL: `CREATE TABLE IF NOT EXISTS tasks (
    id        BIGINT PRIMARY KEY AUTO_INCREMENT,
    title     VARCHAR(255) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS tasks (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    title     TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT 0
)`,
}

// SQLStore implements TaskStore over database/sql for MySQL and SQLite.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

var _ TaskStore = (*SQLStore)(nil)

// NewSQLStore wraps an open handle. The driver must be mysql or sqlite3.
func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	driver := db.DriverName()
	if _, ok := sqlSchemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// OpenSQL opens dsn with the named driver and verifies the connection.
func OpenSQL(ctx context.Context, driver, dsn string, maxConns int) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// sqlite serializes writers; an in-memory database also lives on one connection.
	if driver == DriverSQLite {
		maxConns = 1
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s, err := NewSQLStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the tasks table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlSchemas[s.driver]); err != nil {
		return fmt.Errorf("ensure task schema: %w", err)
	}
	return nil
}

// List retrieves all tasks in id order.
func (s *SQLStore) List(ctx context.Context) ([]models.Task, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tasks := []models.Task{}
	if err := conn.SelectContext(ctx, &tasks, "SELECT id, title, completed FROM tasks ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get retrieves a single task by its id.
func (s *SQLStore) Get(ctx context.Context, id int64) (models.Task, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return s.getTask(ctx, conn, id)
}

// Insert adds a new task and returns the stored row.
func (s *SQLStore) Insert(ctx context.Context, title string) (models.Task, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if s.driver == DriverSQLite {
		var task models.Task
		err := conn.GetContext(ctx, &task,
			s.db.Rebind("INSERT INTO tasks (title) VALUES (?) RETURNING id, title, completed"),
			title,
		)
		if err != nil {
			return models.Task{}, s.mapError(err)
		}
		return task, nil
	}

	res, err := conn.ExecContext(ctx, s.db.Rebind("INSERT INTO tasks (title) VALUES (?)"), title)
	if err != nil {
		return models.Task{}, s.mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("read inserted id: %w", err)
	}
	return s.getTask(ctx, conn, id)
}

// SetCompleted updates the completion flag of a task.
func (s *SQLStore) SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if s.driver == DriverSQLite {
		var task models.Task
		err := conn.GetContext(ctx, &task,
			s.db.Rebind("UPDATE tasks SET completed = ? WHERE id = ? RETURNING id, title, completed"),
			completed, id,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.NotFound(id)
		}
		if err != nil {
			return models.Task{}, s.mapError(err)
		}
		return task, nil
	}

	// MySQL reports zero affected rows when the value is unchanged, so the
	// follow-up read decides whether the row exists.
	if _, err := conn.ExecContext(ctx, s.db.Rebind("UPDATE tasks SET completed = ? WHERE id = ?"), completed, id); err != nil {
		return models.Task{}, s.mapError(err)
	}
	return s.getTask(ctx, conn, id)
}

// Delete removes a task if present.
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, s.db.Rebind("DELETE FROM tasks WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) getTask(ctx context.Context, conn *sqlx.Conn, id int64) (models.Task, error) {
	var task models.Task
	err := conn.GetContext(ctx, &task, s.db.Rebind("SELECT id, title, completed FROM tasks WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound(id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// mapError maps constraint failures onto models.ErrInvalidTask.
func (s *SQLStore) mapError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1406: // column cannot be null, data too long
			return models.Invalidf("%s", myErr.Message)
		}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintNotNull {
		return models.Invalidf("%s", liteErr.Error())
	}
	return fmt.Errorf("%s: %w", s.driver, err)
}
