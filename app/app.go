// Package app wires the store, service, controllers and router into a server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"tasktracker/app/config"
	"tasktracker/app/controllers"
	"tasktracker/app/middleware"
	"tasktracker/app/routes"
	"tasktracker/app/services"
	"tasktracker/app/store"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// App owns the store connection pool for the lifetime of the process.
type App struct {
	cfg     *config.Config
	logger  *log.Logger
	store   store.TaskStore
	handler http.Handler
}

// New opens the store, makes sure the tasks table exists and builds the
// HTTP handler. Any failure here means the server must not start.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	st, err := config.InitStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("initialize %s store: %w", cfg.Store.Driver, err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	logger.Info("task table ready", "driver", cfg.Store.Driver)

	return NewWithStore(cfg, logger, st), nil
}

// NewWithStore builds the handler around an already prepared store.
func NewWithStore(cfg *config.Config, logger *log.Logger, st store.TaskStore) *App {
	// Initialize the service layer
	taskService := services.NewTaskService(st, logger)

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskService, logger)
	healthController := controllers.NewHealthController(taskService, logger)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, taskController, healthController)

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.AccessLog(logger),
		middleware.Recover(logger),
	)

	return &App{cfg: cfg, logger: logger, store: st, handler: handler}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.logger.Info("server is running", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (a *App) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Close releases the store connection pool.
func (a *App) Close() error {
	return a.store.Close()
}
