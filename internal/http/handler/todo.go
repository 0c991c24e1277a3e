package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/service"
)

const maxBodySize = 1 << 20 // 1 MB

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ServeHTTP routes /api/v1/todos and everything below it.
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/todos")
	path = strings.Trim(path, "/")

	parts := strings.SplitN(path, "/", 2)
	todoID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	switch {
	// /api/v1/todos/batch-delete
	case todoID == "batch-delete" && subPath == "":
		h.requireMethod(w, r, http.MethodPost, h.handleDeleteMany)
		return
	// /api/v1/todos/order
	case todoID == "order" && subPath == "":
		h.requireMethod(w, r, http.MethodPut, h.handleUpdateOrder)
		return
	// /api/v1/todos/{id}/done
	case todoID != "" && subPath == "done":
		h.requireMethod(w, r, http.MethodPatch, func(w http.ResponseWriter, r *http.Request) {
			h.handleUpdateDone(w, r, todoID)
		})
		return
	case subPath != "":
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	// /api/v1/todos/{id}
	if todoID != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, todoID)
		case http.MethodPut:
			h.handleEdit(w, r, todoID)
		case http.MethodDelete:
			h.handleDelete(w, r, todoID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// /api/v1/todos
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *TodoHandler) requireMethod(w http.ResponseWriter, r *http.Request, method string, next http.HandlerFunc) {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	next(w, r)
}

type TodoListResponse struct {
	Todos []model.Todo `json:"todos"`
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := model.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_FILTER", "filter must be 'all', 'active' or 'completed'")
		return
	}

	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if filter != model.FilterAll {
		todos = model.FilterTodos(todos, filter)
	}

	WriteJSON(w, http.StatusOK, TodoListResponse{Todos: todos})
}

type InputRequest struct {
	Input string `json:"input"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), req.Input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleGetByID(w http.ResponseWriter, r *http.Request, todoID string) {
	todo, err := h.svc.GetTodoByID(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleEdit(w http.ResponseWriter, r *http.Request, todoID string) {
	var req InputRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.svc.EditTodo(r.Context(), todoID, req.Input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type DoneRequest struct {
	Done *bool `json:"done"`
}

func (h *TodoHandler) handleUpdateDone(w http.ResponseWriter, r *http.Request, todoID string) {
	var req DoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Done == nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "done is required")
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), todoID, *req.Done)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, todoID string) {
	if err := h.svc.DeleteTodo(r.Context(), todoID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	NoContent(w)
}

type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

func (h *TodoHandler) handleDeleteMany(w http.ResponseWriter, r *http.Request) {
	var req DeleteManyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.DeleteMultipleTodos(r.Context(), req.IDs); err != nil {
		handleServiceError(w, r, err)
		return
	}

	NoContent(w)
}

type OrderRequest struct {
	Order []model.OrderPair `json:"order"`
}

func (h *TodoHandler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.UpdateTodoOrder(r.Context(), req.Order); err != nil {
		handleServiceError(w, r, err)
		return
	}

	NoContent(w)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return false
	}
	return true
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrOperationFailed):
		slog.ErrorContext(r.Context(), "todo operation failed", "error", err, "path", r.URL.Path)
		WriteError(w, http.StatusInternalServerError, "OPERATION_FAILED", "operation failed")
	default:
		slog.ErrorContext(r.Context(), "unexpected service error", "error", err, "path", r.URL.Path)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
