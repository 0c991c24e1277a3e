package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-list/internal/model"
)

// MemoryTodoRepository keeps todos in process memory. It follows the same
// error contract as the Postgres implementation.
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	todos map[string]model.Todo
	now   func() time.Time
}

func NewMemoryTodo() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		todos: make(map[string]model.Todo),
		now:   time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (r *MemoryTodoRepository) WithClock(now func() time.Time) *MemoryTodoRepository {
	r.now = now
	return r
}

func (r *MemoryTodoRepository) List(ctx context.Context) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].Order != todos[j].Order {
			return todos[i].Order < todos[j].Order
		}
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		}
		return todos[i].ID < todos[j].ID
	})
	return todos, nil
}

func (r *MemoryTodoRepository) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[todoID]
	if !ok {
		return model.Todo{}, sql.ErrNoRows
	}
	return t, nil
}

func (r *MemoryTodoRepository) MaxOrder(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxOrder := 0
	for _, t := range r.todos {
		maxOrder = max(maxOrder, t.Order)
	}
	return maxOrder, nil
}

func (r *MemoryTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	todo.ID = uuid.NewString()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.todos[todo.ID] = todo
	return todo, nil
}

func (r *MemoryTodoRepository) UpdateInput(ctx context.Context, todoID, input string) (model.Todo, error) {
	return r.modify(todoID, func(t *model.Todo) { t.Input = input })
}

func (r *MemoryTodoRepository) UpdateDone(ctx context.Context, todoID string, done bool) (model.Todo, error) {
	return r.modify(todoID, func(t *model.Todo) { t.Done = done })
}

// modify applies fn to the stored todo under the write lock.
func (r *MemoryTodoRepository) modify(todoID string, fn func(*model.Todo)) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[todoID]
	if !ok {
		return model.Todo{}, sql.ErrNoRows
	}
	fn(&t)
	t.UpdatedAt = r.now().UTC()
	r.todos[todoID] = t
	return t, nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, todoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todoID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.todos, todoID)
	return nil
}

func (r *MemoryTodoRepository) DeleteMany(ctx context.Context, todoIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range todoIDs {
		if _, ok := r.todos[id]; ok {
			delete(r.todos, id)
			n++
		}
	}
	return n, nil
}

// UpdateOrder checks every id before writing, so a missing todo leaves all
// orders untouched.
func (r *MemoryTodoRepository) UpdateOrder(ctx context.Context, pairs []model.OrderPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pairs {
		if _, ok := r.todos[p.ID]; !ok {
			return fmt.Errorf("todo %s: %w", p.ID, sql.ErrNoRows)
		}
	}

	now := r.now().UTC()
	for _, p := range pairs {
		t := r.todos[p.ID]
		t.Order = p.Order
		t.UpdatedAt = now
		r.todos[p.ID] = t
	}
	return nil
}

var _ TodoRepository = (*MemoryTodoRepository)(nil)
