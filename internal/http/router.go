package http

import (
	"net/http"

	"github.com/jaekwang-park/todo-list/internal/http/handler"
	"github.com/jaekwang-park/todo-list/internal/service"
)

// NewRouter wires the health check and the todo API. db may be nil when the
// store has nothing to ping.
func NewRouter(todoSvc *service.TodoService, db handler.Pinger) http.Handler {
	mux := http.NewServeMux()

	// Health check stays outside /api/v1 so probes need no token
	mux.Handle("/health", handler.NewHealthHandler(db))

	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	return mux
}
