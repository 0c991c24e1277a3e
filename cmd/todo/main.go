package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaekwang-park/todo-list/internal/client"
	"github.com/jaekwang-park/todo-list/internal/config"
	"github.com/jaekwang-park/todo-list/internal/listview"
	"github.com/jaekwang-park/todo-list/internal/repository"
	"github.com/jaekwang-park/todo-list/internal/service"
	"github.com/jaekwang-park/todo-list/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var backend listview.Backend
	if cfg.Embedded {
		backend = service.NewTodoService(repository.NewMemoryTodo())
		logger.Info("running embedded", "store", "memory")
	} else {
		backend = client.New(cfg.ServerURL, client.WithAuthSecret(cfg.AuthSecret))
		logger.Info("using server", "url", cfg.ServerURL, "config", cfg.Path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the first page before the screen switches so a reachable server
	// shows its list immediately. On failure the view starts syncing itself.
	list := listview.New()
	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	todos, err := backend.ListTodos(loadCtx)
	cancel()
	if err != nil {
		logger.Warn("initial load failed", "error", err)
	} else {
		list.Seed(todos)
	}

	m := tui.New(backend, list, tui.Options{
		Theme:          cfg.Theme,
		PollInterval:   cfg.PollInterval,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	return tui.Run(ctx, m)
}

// newLogger writes to path, or discards when path is empty, so log lines
// never land on the alternate screen.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
