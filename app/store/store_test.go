package store

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	"tasktracker/app/models"
)

func newSQLiteStore(t *testing.T) TaskStore {
	t.Helper()
	ctx := context.Background()
	s, err := OpenSQL(ctx, DriverSQLite, ":memory:", 0)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func newPostgresStore(t *testing.T) TaskStore {
	t.Helper()
	dsn := os.Getenv("TASKTRACKER_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TASKTRACKER_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := s.pool.Exec(ctx, "TRUNCATE tasks RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return s
}

func newMySQLStore(t *testing.T) TaskStore {
	t.Helper()
	dsn := os.Getenv("TASKTRACKER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKTRACKER_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenSQL(ctx, DriverMySQL, dsn, 4)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, "TRUNCATE TABLE tasks"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newSQLiteStore)
}

func TestPostgresStore(t *testing.T) {
	runStoreSuite(t, newPostgresStore)
}

func TestMySQLStore(t *testing.T) {
	runStoreSuite(t, newMySQLStore)
}

func runStoreSuite(t *testing.T, open func(t *testing.T) TaskStore) {
	t.Run("round trip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "Buy milk")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		tasks, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("List: got %d tasks, want 1", len(tasks))
		}
		got := tasks[0]
		if got.Title != "Buy milk" || got.Completed || got.ID <= 0 {
			t.Errorf("List: got %+v, want Buy milk, not completed, positive id", got)
		}
		if got != created {
			t.Errorf("Insert returned %+v, List returned %+v", created, got)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		s := open(t)
		tasks, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("List: got %#v, want empty slice", tasks)
		}
	})

	t.Run("ordering survives updates and deletes", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := mustInsert(t, s, "A")
		b := mustInsert(t, s, "B")
		c := mustInsert(t, s, "C")
		d := mustInsert(t, s, "D")

		if _, err := s.SetCompleted(ctx, a.ID, true); err != nil {
			t.Fatalf("SetCompleted: %v", err)
		}
		if err := s.Delete(ctx, d.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		assertIDs(t, s, a.ID, b.ID, c.ID)
		if !(a.ID < b.ID && b.ID < c.ID) {
			t.Errorf("ids not increasing: %d, %d, %d", a.ID, b.ID, c.ID)
		}
	})

	t.Run("delete missing id is a no-op", func(t *testing.T) {
		s := open(t)
		a := mustInsert(t, s, "A")
		if err := s.Delete(context.Background(), 99999); err != nil {
			t.Fatalf("Delete(99999): %v", err)
		}
		assertIDs(t, s, a.ID)
	})

	t.Run("completion toggle", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := mustInsert(t, s, "A")

		updated, err := s.SetCompleted(ctx, a.ID, true)
		if err != nil {
			t.Fatalf("SetCompleted: %v", err)
		}
		want := models.Task{ID: a.ID, Title: "A", Completed: true}
		if updated != want {
			t.Errorf("SetCompleted: got %+v, want %+v", updated, want)
		}
		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != want {
			t.Errorf("Get: got %+v, want %+v", got, want)
		}

		// Writing the same value again must still report the row.
		if _, err := s.SetCompleted(ctx, a.ID, true); err != nil {
			t.Errorf("SetCompleted same value: %v", err)
		}
	})

	t.Run("update missing id", func(t *testing.T) {
		s := open(t)
		_, err := s.SetCompleted(context.Background(), 99999, true)
		if !errors.Is(err, models.ErrTaskNotFound) {
			t.Errorf("SetCompleted(99999): got %v, want ErrTaskNotFound", err)
		}
		_, err = s.Get(context.Background(), 99999)
		if !errors.Is(err, models.ErrTaskNotFound) {
			t.Errorf("Get(99999): got %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("ids beyond int32", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := mustInsert(t, s, "A")
		const id = int64(math.MaxInt32) + 1

		if err := s.Delete(ctx, id); err != nil {
			t.Errorf("Delete(%d): %v", id, err)
		}
		if _, err := s.SetCompleted(ctx, id, true); !errors.Is(err, models.ErrTaskNotFound) {
			t.Errorf("SetCompleted(%d): got %v, want ErrTaskNotFound", id, err)
		}
		if _, err := s.Get(ctx, id); !errors.Is(err, models.ErrTaskNotFound) {
			t.Errorf("Get(%d): got %v, want ErrTaskNotFound", id, err)
		}
		assertIDs(t, s, a.ID)
	})

	t.Run("delete removes exactly one row", func(t *testing.T) {
		s := open(t)
		a := mustInsert(t, s, "1")
		b := mustInsert(t, s, "2")
		c := mustInsert(t, s, "3")
		if err := s.Delete(context.Background(), b.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		assertIDs(t, s, a.ID, c.ID)
	})

	t.Run("concurrent updates of one row", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a := mustInsert(t, s, "A")

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, v := range []bool{true, false} {
			wg.Add(1)
			go func(v bool) {
				defer wg.Done()
				_, err := s.SetCompleted(ctx, a.ID, v)
				errs <- err
			}(v)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("SetCompleted: %v", err)
			}
		}

		assertIDs(t, s, a.ID)
		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "A" {
			t.Errorf("Title: got %q, want A", got.Title)
		}
	})
}

func mustInsert(t *testing.T, s TaskStore, title string) models.Task {
	t.Helper()
	task, err := s.Insert(context.Background(), title)
	if err != nil {
		t.Fatalf("Insert(%q): %v", title, err)
	}
	return task
}

func assertIDs(t *testing.T, s TaskStore, want ...int64) {
	t.Helper()
	tasks, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != len(want) {
		t.Fatalf("List: got %d tasks, want %d", len(tasks), len(want))
	}
	for i, task := range tasks {
		if task.ID != want[i] {
			t.Errorf("List[%d]: got id %d, want %d", i, task.ID, want[i])
		}
	}
}

func TestNewSQLStoreRejectsUnknownDriver(t *testing.T) {
	s, err := OpenSQL(context.Background(), DriverSQLite, ":memory:", 0)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	defer s.Close()
	if s.driver != DriverSQLite {
		t.Errorf("driver: got %q, want %q", s.driver, DriverSQLite)
	}
	if _, err := OpenSQL(context.Background(), "postgres", "x", 0); err == nil {
		t.Error("OpenSQL(postgres): expected error")
	}
}
