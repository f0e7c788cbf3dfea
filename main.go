package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/app"
	"tasktracker/app/config"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasktracker: %v\n", err)
		os.Exit(2)
	}

	logger, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasktracker: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server never starts without a reachable store
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize task store", "err", err)
	}

	serveErr := a.ListenAndServe(ctx)
	if err := a.Close(); err != nil {
		logger.Error("closing task store", "err", err)
	}
	if serveErr != nil {
		logger.Fatal("server stopped", "err", serveErr)
	}
	logger.Info("server stopped")
}
