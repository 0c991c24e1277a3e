package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/repository"
	"github.com/jaekwang-park/todo-list/internal/validation"
)

type TodoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

// CreateTodo stores a new, not yet done todo at the end of the list.
func (s *TodoService) CreateTodo(ctx context.Context, input string) (model.Todo, error) {
	text, err := validation.Input(input)
	if err != nil {
		return model.Todo{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	maxOrder, err := s.repo.MaxOrder(ctx)
	if err != nil {
		return model.Todo{}, opFailed("create todo", err)
	}

	created, err := s.repo.Create(ctx, model.Todo{
		Input: text,
		Done:  false,
		Order: maxOrder + 1,
	})
	if err != nil {
		return model.Todo{}, opFailed("create todo", err)
	}

	return created, nil
}

func (s *TodoService) GetTodoByID(ctx context.Context, todoID string) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, opFailed("get todo", err)
	}
	return todo, nil
}

// ListTodos returns every todo, ascending by order.
func (s *TodoService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, opFailed("list todos", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].Order < todos[j].Order
	})
	return todos, nil
}

// EditTodo replaces the text of a todo.
func (s *TodoService) EditTodo(ctx context.Context, todoID, input string) (model.Todo, error) {
	text, err := validation.Input(input)
	if err != nil {
		return model.Todo{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.repo.UpdateInput(ctx, todoID, text)
	if err != nil {
		return model.Todo{}, notFoundOr("edit todo", err)
	}
	return updated, nil
}

// UpdateTodo sets the done flag of a todo.
func (s *TodoService) UpdateTodo(ctx context.Context, todoID string, done bool) (model.Todo, error) {
	updated, err := s.repo.UpdateDone(ctx, todoID, done)
	if err != nil {
		return model.Todo{}, notFoundOr("update todo", err)
	}
	return updated, nil
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return opFailed(op, err)
}

// DeleteTodo removes a todo. Deleting the same id twice fails with ErrNotFound.
func (s *TodoService) DeleteTodo(ctx context.Context, todoID string) error {
	err := s.repo.Delete(ctx, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return opFailed("delete todo", err)
	}
	return nil
}

// DeleteMultipleTodos removes all listed todos with one gateway call.
// Ids that no longer exist are ignored.
func (s *TodoService) DeleteMultipleTodos(ctx context.Context, todoIDs []string) error {
	if err := validation.IDs(todoIDs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.repo.DeleteMany(ctx, todoIDs); err != nil {
		return opFailed("delete todos", err)
	}
	return nil
}

// UpdateTodoOrder stores the given positions, one update per pair.
func (s *TodoService) UpdateTodoOrder(ctx context.Context, pairs []model.OrderPair) error {
	if err := validation.Order(pairs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.UpdateOrder(ctx, pairs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return opFailed("update todo order", err)
	}
	return nil
}
