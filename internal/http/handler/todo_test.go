package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaekwang-park/todo-list/internal/http/handler"
	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/service"
)

// mockTodoRepo for handler tests
type mockTodoRepo struct {
	listFn        func(ctx context.Context) ([]model.Todo, error)
	getByIDFn     func(ctx context.Context, todoID string) (model.Todo, error)
	maxOrderFn    func(ctx context.Context) (int, error)
	createFn      func(ctx context.Context, todo model.Todo) (model.Todo, error)
	deleteFn      func(ctx context.Context, todoID string) error
	deleteManyFn  func(ctx context.Context, todoIDs []string) (int64, error)
	updateOrderFn func(ctx context.Context, pairs []model.OrderPair) error
}

func (m *mockTodoRepo) List(ctx context.Context) ([]model.Todo, error) {
	return m.listFn(ctx)
}
func (m *mockTodoRepo) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	return m.getByIDFn(ctx, todoID)
}
func (m *mockTodoRepo) MaxOrder(ctx context.Context) (int, error) {
	if m.maxOrderFn == nil {
		return 0, nil
	}
	return m.maxOrderFn(ctx)
}
func (m *mockTodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return m.createFn(ctx, todo)
}

// UpdateInput and UpdateDone patch whatever getByIDFn reports as stored.
func (m *mockTodoRepo) UpdateInput(ctx context.Context, todoID, input string) (model.Todo, error) {
	todo, err := m.getByIDFn(ctx, todoID)
	todo.Input = input
	return todo, err
}
func (m *mockTodoRepo) UpdateDone(ctx context.Context, todoID string, done bool) (model.Todo, error) {
	todo, err := m.getByIDFn(ctx, todoID)
	todo.Done = done
	return todo, err
}
func (m *mockTodoRepo) Delete(ctx context.Context, todoID string) error {
	return m.deleteFn(ctx, todoID)
}
func (m *mockTodoRepo) DeleteMany(ctx context.Context, todoIDs []string) (int64, error) {
	return m.deleteManyFn(ctx, todoIDs)
}
func (m *mockTodoRepo) UpdateOrder(ctx context.Context, pairs []model.OrderPair) error {
	return m.updateOrderFn(ctx, pairs)
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTodo() model.Todo {
	return model.Todo{
		ID:        "todo-1",
		Input:     "Buy groceries",
		Order:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTodoHandler(repo *mockTodoRepo) *handler.TodoHandler {
	svc := service.NewTodoService(repo)
	return handler.NewTodoHandler(svc)
}

func TestTodoHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"input":"Buy groceries"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty input",
			body:       `{"input":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing input",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "repo error",
			body:       `{"input":"Buy groceries"}`,
			repoErr:    fmt.Errorf("db error"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				createFn: func(ctx context.Context, todo model.Todo) (model.Todo, error) {
					if tt.repoErr != nil {
						return model.Todo{}, tt.repoErr
					}
					result := sampleTodo()
					result.Input = todo.Input
					result.Order = todo.Order
					return result, nil
				},
			}

			h := newTodoHandler(repo)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var result model.Todo
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.Input != "Buy groceries" {
					t.Errorf("expected input=Buy groceries, got %s", result.Input)
				}
				if result.Done {
					t.Error("expected done=false")
				}
				if result.Order != 1 {
					t.Errorf("expected order=1, got %d", result.Order)
				}
			}
		})
	}
}

func TestTodoHandler_CreateErrorBody(t *testing.T) {
	h := newTodoHandler(&mockTodoRepo{
		createFn: func(ctx context.Context, todo model.Todo) (model.Todo, error) {
			return model.Todo{}, fmt.Errorf("password=hunter2 connection refused")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewBufferString(`{"input":"x"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result.Error.Code != "OPERATION_FAILED" {
		t.Errorf("expected code=OPERATION_FAILED, got %s", result.Error.Code)
	}
	if bytes.Contains([]byte(result.Error.Message), []byte("hunter2")) {
		t.Errorf("storage cause leaked into response: %s", result.Error.Message)
	}
}

func TestTodoHandler_GetByID(t *testing.T) {
	tests := []struct {
		name       string
		todoID     string
		repoFn     func(ctx context.Context, todoID string) (model.Todo, error)
		wantStatus int
	}{
		{
			name:   "success",
			todoID: "todo-1",
			repoFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				return sampleTodo(), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "not found",
			todoID: "nonexistent",
			repoFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				return model.Todo{}, fmt.Errorf("scan: %w", sql.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{getByIDFn: tt.repoFn}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/"+tt.todoID, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestTodoHandler_Edit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		getFn      func(ctx context.Context, todoID string) (model.Todo, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"input":"Updated input"}`,
			getFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				return sampleTodo(), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{bad`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty input",
			body:       `{"input":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not found",
			body: `{"input":"Updated"}`,
			getFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				return model.Todo{}, fmt.Errorf("scan: %w", sql.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{getByIDFn: tt.getFn}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/todos/todo-1", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"not found", sql.ErrNoRows, http.StatusNotFound},
		{"repo error", fmt.Errorf("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				deleteFn: func(ctx context.Context, todoID string) error {
					return tt.repoErr
				},
			}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/todos/todo-1", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestTodoHandler_UpdateDone(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		getFn      func(ctx context.Context, todoID string) (model.Todo, error)
		wantStatus int
		wantDone   bool
	}{
		{
			name:   "mark done",
			method: http.MethodPatch,
			body:   `{"done":true}`,
			getFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				return sampleTodo(), nil
			},
			wantStatus: http.StatusOK,
			wantDone:   true,
		},
		{
			name:   "mark not done",
			method: http.MethodPatch,
			body:   `{"done":false}`,
			getFn: func(ctx context.Context, todoID string) (model.Todo, error) {
				todo := sampleTodo()
				todo.Done = true
				return todo, nil
			},
			wantStatus: http.StatusOK,
			wantDone:   false,
		},
		{
			name:       "invalid method",
			method:     http.MethodPost,
			body:       `{"done":true}`,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "missing done",
			method:     http.MethodPatch,
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			method:     http.MethodPatch,
			body:       `{bad`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{getByIDFn: tt.getFn}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(tt.method, "/api/v1/todos/todo-1/done", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var result model.Todo
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.Done != tt.wantDone {
					t.Errorf("expected done=%v, got %v", tt.wantDone, result.Done)
				}
			}
		})
	}
}

func TestTodoHandler_DeleteMany(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantIDs    int
	}{
		{"success", http.MethodPost, `{"ids":["a","b"]}`, http.StatusNoContent, 2},
		{"empty ids", http.MethodPost, `{"ids":[]}`, http.StatusBadRequest, 0},
		{"missing ids", http.MethodPost, `{}`, http.StatusBadRequest, 0},
		{"wrong method", http.MethodDelete, `{"ids":["a"]}`, http.StatusMethodNotAllowed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			repo := &mockTodoRepo{
				deleteManyFn: func(ctx context.Context, todoIDs []string) (int64, error) {
					got = todoIDs
					return int64(len(todoIDs)), nil
				},
			}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(tt.method, "/api/v1/todos/batch-delete", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if len(got) != tt.wantIDs {
				t.Errorf("expected %d ids passed through, got %d", tt.wantIDs, len(got))
			}
		})
	}
}

func TestTodoHandler_UpdateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{"success", `{"order":[{"id":"b","order":0},{"id":"a","order":1}]}`, nil, http.StatusNoContent},
		{"empty", `{"order":[]}`, nil, http.StatusBadRequest},
		{"unknown id", `{"order":[{"id":"x","order":0}]}`, fmt.Errorf("todo x: %w", sql.ErrNoRows), http.StatusNotFound},
		{"invalid json", `{`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []model.OrderPair
			repo := &mockTodoRepo{
				updateOrderFn: func(ctx context.Context, pairs []model.OrderPair) error {
					got = pairs
					return tt.repoErr
				},
			}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/todos/order", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusNoContent {
				want := []model.OrderPair{{ID: "b", Order: 0}, {ID: "a", Order: 1}}
				if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
					t.Errorf("expected pairs %+v, got %+v", want, got)
				}
			}
		})
	}
}

func TestTodoHandler_List(t *testing.T) {
	todos := []model.Todo{
		{ID: "b", Input: "B", Order: 2, Done: true},
		{ID: "a", Input: "A", Order: 1},
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
	}{
		{"all sorted", "", http.StatusOK, []string{"a", "b"}},
		{"active", "?filter=active", http.StatusOK, []string{"a"}},
		{"completed", "?filter=completed", http.StatusOK, []string{"b"}},
		{"invalid filter", "?filter=bogus", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				listFn: func(ctx context.Context) ([]model.Todo, error) {
					out := make([]model.Todo, len(todos))
					copy(out, todos)
					return out, nil
				},
			}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos"+tt.query, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var result handler.TodoListResponse
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if len(result.Todos) != len(tt.wantIDs) {
				t.Fatalf("expected %d todos, got %d", len(tt.wantIDs), len(result.Todos))
			}
			for i, id := range tt.wantIDs {
				if result.Todos[i].ID != id {
					t.Errorf("index %d: expected %s, got %s", i, id, result.Todos[i].ID)
				}
			}
		})
	}
}

func TestTodoHandler_MethodNotAllowed(t *testing.T) {
	h := newTodoHandler(&mockTodoRepo{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/v1/todos"},
		{http.MethodPost, "/api/v1/todos/todo-1"},
		{http.MethodGet, "/api/v1/todos/order"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status 405, got %d", w.Code)
			}
		})
	}
}

func TestTodoHandler_UnknownSubPath(t *testing.T) {
	h := newTodoHandler(&mockTodoRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/todo-1/comments", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
