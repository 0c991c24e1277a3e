package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/todo-list/internal/http/handler"
	"github.com/jaekwang-park/todo-list/internal/middleware"
	"github.com/jaekwang-park/todo-list/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, todoSvc *service.TodoService, auth *middleware.Auth, db handler.Pinger) *Server {
	if auth == nil {
		auth = middleware.NewAuth("")
	}
	router := NewRouter(todoSvc, db)

	// request id -> recovery -> logging -> auth -> router
	chain := middleware.RequestID(
		middleware.Recovery(logger)(
			middleware.Logging(logger)(
				auth.Middleware(router),
			),
		),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the full middleware chain, for in-process use.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
