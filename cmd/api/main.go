package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/jaekwang-park/todo-list/internal/config"
	todohttp "github.com/jaekwang-park/todo-list/internal/http"
	"github.com/jaekwang-park/todo-list/internal/http/handler"
	"github.com/jaekwang-park/todo-list/internal/middleware"
	"github.com/jaekwang-park/todo-list/internal/repository"
	"github.com/jaekwang-park/todo-list/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"store", cfg.Store,
		"auth", cfg.AuthSecret != "",
		"log_level", cfg.LogLevel,
	)

	var (
		todoRepo repository.TodoRepository
		pinger   handler.Pinger
	)
	switch cfg.Store {
	case config.StoreMemory:
		todoRepo = repository.NewMemoryTodo()
		logger.Warn("using in-memory store: todos are lost on restart")
	default:
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		todoRepo = repository.NewPostgresTodo(db)
		pinger = db
	}

	todoSvc := service.NewTodoService(todoRepo)

	auth := middleware.NewAuth(cfg.AuthSecret)
	if !auth.Enabled() {
		logger.Warn("AUTH_SECRET not set: API is open")
	}

	srv := todohttp.NewServer(cfg.ServerPort, logger, todoSvc, auth, pinger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func openDB(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := repository.NewDB(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "driver", cfg.DB.Driver)

	if cfg.DB.Migrate {
		if err := repository.Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
