package models

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTask is returned when a task cannot be stored as given.
	ErrInvalidTask = errors.New("invalid task")
)

// TaskError attaches a detail message to one of the sentinel errors above.
type TaskError struct {
	Kind error
	Msg  string
}

// Error prefixes the detail message with the sentinel text.
func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Unwrap returns the sentinel kind.
func (e *TaskError) Unwrap() error { return e.Kind }

// Invalidf reports a task that the store cannot accept.
func Invalidf(format string, args ...any) error {
	return &TaskError{Kind: ErrInvalidTask, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports that no task has the given id.
func NotFound(id int64) error {
	return &TaskError{Kind: ErrTaskNotFound, Msg: fmt.Sprintf("id %d", id)}
}
