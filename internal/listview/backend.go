package listview

import (
	"context"

	"github.com/jaekwang-park/todo-list/internal/model"
)

// Backend is the action surface the list view drives. Both the in-process
// service and the HTTP client satisfy it.
type Backend interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, input string) (model.Todo, error)
	EditTodo(ctx context.Context, todoID, input string) (model.Todo, error)
	UpdateTodo(ctx context.Context, todoID string, done bool) (model.Todo, error)
	DeleteTodo(ctx context.Context, todoID string) error
	DeleteMultipleTodos(ctx context.Context, todoIDs []string) error
	UpdateTodoOrder(ctx context.Context, pairs []model.OrderPair) error
}

// Cmd performs the remote half of an action. It does not touch the Model and
// may run on any goroutine.
type Cmd func(ctx context.Context, b Backend) Result

// Result carries the outcome of a Cmd back to the Model through Apply.
type Result struct {
	Action string
	Err    error

	finish func(*Model)
}
