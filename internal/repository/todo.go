package repository

import (
	"context"

	"github.com/jaekwang-park/todo-list/internal/model"
)

// TodoRepository is the persistence gateway for todos. Implementations report
// a missing record with sql.ErrNoRows (possibly wrapped).
type TodoRepository interface {
	List(ctx context.Context) ([]model.Todo, error)
	GetByID(ctx context.Context, todoID string) (model.Todo, error)
	MaxOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	UpdateInput(ctx context.Context, todoID, input string) (model.Todo, error)
	UpdateDone(ctx context.Context, todoID string, done bool) (model.Todo, error)
	Delete(ctx context.Context, todoID string) error
	DeleteMany(ctx context.Context, todoIDs []string) (int64, error)
	UpdateOrder(ctx context.Context, pairs []model.OrderPair) error
}
