package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"tasktracker/app/models"
	"tasktracker/app/services"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service  *services.TaskService
	Exporter *services.Exporter
	logger   *log.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger *log.Logger) *TaskController {
	return &TaskController{
		Service:  service,
		Exporter: services.NewExporter(service),
		logger:   logger,
	}
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeBody(w, r, createTaskSchema, &req); err != nil {
		fail(c.logger, w, r, err)
		return
	}

	task, err := c.Service.CreateTask(r.Context(), req.Title)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	task, err := c.Service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}. Only the completion flag can change.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeBody(w, r, updateTaskSchema, &req); err != nil {
		fail(c.logger, w, r, err)
		return
	}

	task, err := c.Service.UpdateTask(r.Context(), taskID, req.Completed)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	if err := c.Service.DeleteTask(r.Context(), taskID); err != nil {
		fail(c.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportTasks handles GET /tasks/export?format=json|csv|pdf.
func (c *TaskController) ExportTasks(w http.ResponseWriter, r *http.Request) {
	format, err := services.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}
	b, err := c.Exporter.Export(r.Context(), format)
	if err != nil {
		fail(c.logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tasks."+string(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func taskIDFromRequest(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["taskID"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, models.Invalidf("invalid task id %q", raw)
	}
	return id, nil
}
