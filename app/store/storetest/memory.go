// Package storetest provides an in-memory store.TaskStore for tests of the
// layers above the database.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"tasktracker/app/models"
	"tasktracker/app/store"
)

// Memory keeps tasks in a map guarded by a mutex. Ids start at 1 and are
// never reused.
type Memory struct {
	mu     sync.Mutex
	tasks  map[int64]models.Task
	nextID int64

	// PingErr, when set, is returned by Ping.
	PingErr error
	// FailWith, when set, is returned by every data method.
	FailWith error
}

var _ store.TaskStore = (*Memory)(nil)

// NewMemory returns an empty store whose ids start at 1.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[int64]models.Task), nextID: 1}
}

// List returns a copy of every task in id order.
func (m *Memory) List(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the task with the given id.
func (m *Memory) Get(ctx context.Context, id int64) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return models.Task{}, m.FailWith
	}
	t, ok := m.tasks[id]
	if !ok {
		return models.Task{}, models.NotFound(id)
	}
	return t, nil
}

// Insert stores a new, not completed task under the next id.
func (m *Memory) Insert(ctx context.Context, title string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return models.Task{}, m.FailWith
	}
	t := models.Task{ID: m.nextID, Title: title}
	m.tasks[t.ID] = t
	m.nextID++
	return t, nil
}

// SetCompleted updates the completion flag of a task.
func (m *Memory) SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return models.Task{}, m.FailWith
	}
	t, ok := m.tasks[id]
	if !ok {
		return models.Task{}, models.NotFound(id)
	}
	t.Completed = completed
	m.tasks[id] = t
	return t, nil
}

// Delete removes a task if present.
func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.tasks, id)
	return nil
}

// EnsureSchema is a no-op.
func (m *Memory) EnsureSchema(ctx context.Context) error { return nil }

// Ping returns PingErr.
func (m *Memory) Ping(ctx context.Context) error { return m.PingErr }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// ErrBroken is a convenience failure for FailWith and PingErr.
var ErrBroken = errors.New("storetest: broken store")
