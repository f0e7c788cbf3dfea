package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"tasktracker/app/models"
	"tasktracker/app/store"

	"github.com/charmbracelet/log"
)

// TaskService handles task-related operations.
type TaskService struct {
	store  store.TaskStore
	logger *log.Logger
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(st store.TaskStore, logger *log.Logger) *TaskService {
	return &TaskService{store: st, logger: logger.WithPrefix("tasks")}
}

// GetTasks retrieves all tasks in ascending id order.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task by its ID.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID int64) (models.Task, error) {
	task, err := s.store.Get(ctx, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// CreateTask adds a new task. Blank or overlong titles are rejected before reaching the store.
func (s *TaskService) CreateTask(ctx context.Context, title string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, models.Invalidf("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return models.Task{}, models.Invalidf("title is longer than %d characters", models.MaxTitleLength)
	}

	task, err := s.store.Insert(ctx, title)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug("task created", "id", task.ID)
	return task, nil
}

// UpdateTask sets the completion flag of an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, taskID int64, completed bool) (models.Task, error) {
	task, err := s.store.SetCompleted(ctx, taskID, completed)
	if err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			s.logger.Debug("update of missing task", "id", taskID)
		}
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.logger.Debug("task updated", "id", task.ID, "completed", task.Completed)
	return task, nil
}

// DeleteTask deletes a task. Deleting an id that does not exist is not an error.
func (s *TaskService) DeleteTask(ctx context.Context, taskID int64) error {
	if err := s.store.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Debug("task deleted", "id", taskID)
	return nil
}

// Ping reports whether the store is reachable.
func (s *TaskService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
