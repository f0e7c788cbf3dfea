package routes

import (
	"net/http"

	"tasktracker/app/controllers"
	"tasktracker/app/middleware"
	"tasktracker/app/web"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController, healthController *controllers.HealthController) {
	router.Use(mux.CORSMethodMiddleware(router))
	router.Use(middleware.CORS)
	// Router-level middleware skips unmatched requests, so the fallbacks carry CORS themselves.
	router.NotFoundHandler = middleware.CORS(http.NotFoundHandler())
	router.MethodNotAllowedHandler = middleware.CORS(http.HandlerFunc(methodNotAllowed))

	router.HandleFunc("/healthz", healthController.Health).Methods(http.MethodGet)

	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/export", taskController.ExportTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", taskController.GetTaskByID).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", taskController.DeleteTask).Methods(http.MethodDelete)

	router.PathPrefix("/").Handler(web.Handler()).Methods(http.MethodGet, http.MethodHead)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
