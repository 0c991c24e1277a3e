package listview

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/validation"
)

const (
	actionLoad    = "load todos"
	actionCreate  = "add todo"
	actionEdit    = "edit todo"
	actionToggle  = "update todo"
	actionDelete  = "delete todo"
	actionClear   = "clear completed todos"
	actionReorder = "reorder todos"
)

const tempIDPrefix = "tmp-"

// ErrCreatePending is returned when reordering while new items still carry
// temporary ids.
var ErrCreatePending = errors.New("new todos are still being saved")

func isTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// optimistic applies a local change right away and returns the Cmd that makes
// it remote. apply returns the undo run on failure; commit folds the backend's
// answer in on success.
func optimistic[T any](
	m *Model,
	action string,
	apply func(*Model) (undo func(*Model)),
	remote func(context.Context, Backend) (T, error),
	commit func(*Model, T),
) Cmd {
	undo := apply(m)
	m.begin()
	return func(ctx context.Context, b Backend) Result {
		v, err := remote(ctx, b)
		return Result{Action: action, Err: err, finish: func(m *Model) {
			m.end()
			if err != nil {
				if undo != nil {
					undo(m)
				}
				m.fail(action, err)
				return
			}
			if commit != nil {
				commit(m, v)
			}
		}}
	}
}

func noValue(fn func(context.Context, Backend) error) func(context.Context, Backend) (struct{}, error) {
	return func(ctx context.Context, b Backend) (struct{}, error) {
		return struct{}{}, fn(ctx, b)
	}
}

// Create appends input under a temporary id and saves it. Invalid input sets
// the error and returns nil.
func (m *Model) Create(input string) Cmd {
	text, err := validation.Input(input)
	if err != nil {
		m.err = validationMessage(err)
		return nil
	}

	tempID := tempIDPrefix + uuid.NewString()
	now := time.Now().UTC()
	m.creates++

	return optimistic(m, actionCreate,
		func(m *Model) func(*Model) {
			m.items = append(m.items, model.Todo{
				ID:        tempID,
				Input:     text,
				Order:     m.maxOrder() + 1,
				CreatedAt: now,
				UpdatedAt: now,
			})
			return func(m *Model) {
				m.creates--
				if i := m.indexOf(tempID); i >= 0 {
					m.items = append(m.items[:i], m.items[i+1:]...)
				}
			}
		},
		func(ctx context.Context, b Backend) (model.Todo, error) {
			return b.CreateTodo(ctx, text)
		},
		func(m *Model, saved model.Todo) {
			m.creates--
			if i := m.indexOf(tempID); i >= 0 {
				m.items[i] = saved
			}
		},
	)
}

// Edit replaces the text of id.
func (m *Model) Edit(id, input string) Cmd {
	i := m.indexOf(id)
	if i < 0 || isTempID(id) {
		return nil
	}
	text, err := validation.Input(input)
	if err != nil {
		m.err = validationMessage(err)
		return nil
	}
	if m.items[i].Input == text {
		return nil
	}

	return optimistic(m, actionEdit,
		func(m *Model) func(*Model) {
			prev := m.items[i].Input
			m.items[i].Input = text
			return func(m *Model) {
				if j := m.indexOf(id); j >= 0 {
					m.items[j].Input = prev
				}
			}
		},
		func(ctx context.Context, b Backend) (model.Todo, error) {
			return b.EditTodo(ctx, id, text)
		},
		func(m *Model, saved model.Todo) {
			if j := m.indexOf(id); j >= 0 {
				m.items[j].Input = saved.Input
				m.items[j].UpdatedAt = saved.UpdatedAt
			}
		},
	)
}

// Toggle flips the done flag of id.
func (m *Model) Toggle(id string) Cmd {
	i := m.indexOf(id)
	if i < 0 || isTempID(id) {
		return nil
	}
	done := !m.items[i].Done

	return optimistic(m, actionToggle,
		func(m *Model) func(*Model) {
			m.items[i].Done = done
			return func(m *Model) {
				if j := m.indexOf(id); j >= 0 {
					m.items[j].Done = !done
				}
			}
		},
		func(ctx context.Context, b Backend) (model.Todo, error) {
			return b.UpdateTodo(ctx, id, done)
		},
		func(m *Model, saved model.Todo) {
			if j := m.indexOf(id); j >= 0 {
				m.items[j].Done = saved.Done
				m.items[j].UpdatedAt = saved.UpdatedAt
			}
		},
	)
}

// Delete removes id. On failure the item comes back at its old position.
func (m *Model) Delete(id string) Cmd {
	i := m.indexOf(id)
	if i < 0 || isTempID(id) {
		return nil
	}

	return optimistic(m, actionDelete,
		func(m *Model) func(*Model) {
			removed := m.items[i]
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			return func(m *Model) {
				m.reinsert(i, removed)
			}
		},
		noValue(func(ctx context.Context, b Backend) error {
			return b.DeleteTodo(ctx, id)
		}),
		nil,
	)
}

// ClearCompleted removes every done item with one backend call. It returns
// nil when nothing is done.
func (m *Model) ClearCompleted() Cmd {
	type removal struct {
		index int
		todo  model.Todo
	}
	var removed []removal
	var ids []string
	for i, t := range m.items {
		if t.Done && !isTempID(t.ID) {
			removed = append(removed, removal{index: i, todo: t})
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return optimistic(m, actionClear,
		func(m *Model) func(*Model) {
			kept := make([]model.Todo, 0, len(m.items)-len(removed))
			for _, t := range m.items {
				if !t.Done || isTempID(t.ID) {
					kept = append(kept, t)
				}
			}
			m.items = kept
			return func(m *Model) {
				for _, r := range removed {
					m.reinsert(r.index, r.todo)
				}
			}
		},
		noValue(func(ctx context.Context, b Backend) error {
			return b.DeleteMultipleTodos(ctx, ids)
		}),
		nil,
	)
}

// Reorder puts the items in the order of ids, which must name every item
// exactly once, and saves each item's new index as its order.
func (m *Model) Reorder(ids []string) Cmd {
	if m.creates > 0 {
		m.fail(actionReorder, ErrCreatePending)
		return nil
	}
	if !m.isPermutation(ids) {
		return nil
	}
	pairs := model.OrderPairs(ids)

	return optimistic(m, actionReorder,
		func(m *Model) func(*Model) {
			prevIDs := make([]string, len(m.items))
			prevOrder := make(map[string]int, len(m.items))
			byID := make(map[string]model.Todo, len(m.items))
			for i, t := range m.items {
				prevIDs[i] = t.ID
				prevOrder[t.ID] = t.Order
				byID[t.ID] = t
			}

			reordered := make([]model.Todo, len(ids))
			for i, id := range ids {
				t := byID[id]
				t.Order = i
				reordered[i] = t
			}
			m.items = reordered

			return func(m *Model) {
				m.restoreOrder(prevIDs, prevOrder)
			}
		},
		noValue(func(ctx context.Context, b Backend) error {
			return b.UpdateTodoOrder(ctx, pairs)
		}),
		nil,
	)
}

// Move shifts id by delta places among the visible items, the keyboard
// equivalent of dragging it.
func (m *Model) Move(id string, delta int) Cmd {
	visible := m.Visible()
	pos := -1
	for i, t := range visible {
		if t.ID == id {
			pos = i
			break
		}
	}
	target := pos + delta
	if pos < 0 || delta == 0 || target < 0 || target >= len(visible) {
		return nil
	}

	to := m.indexOf(visible[target].ID)

	ids := make([]string, 0, len(m.items))
	for _, t := range m.items {
		if t.ID != id {
			ids = append(ids, t.ID)
		}
	}
	// With the item removed, index to lands after the target when moving
	// down and before it when moving up.
	return m.Reorder(insertAt(ids, to, id))
}

func (m *Model) isPermutation(ids []string) bool {
	if len(ids) != len(m.items) || len(ids) == 0 {
		return false
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || m.indexOf(id) < 0 {
			return false
		}
		seen[id] = true
	}
	return true
}

// reinsert puts t back at index, clamped to the current length, unless an
// item with its id is already present.
func (m *Model) reinsert(index int, t model.Todo) {
	if m.indexOf(t.ID) >= 0 {
		return
	}
	if index > len(m.items) {
		index = len(m.items)
	}
	m.items = append(m.items, model.Todo{})
	copy(m.items[index+1:], m.items[index:])
	m.items[index] = t
}

// restoreOrder sorts the items back into prevIDs order and restores their
// order values. Items added since go last.
func (m *Model) restoreOrder(prevIDs []string, prevOrder map[string]int) {
	rank := make(map[string]int, len(prevIDs))
	for i, id := range prevIDs {
		rank[id] = i
	}
	restored := make([]model.Todo, 0, len(m.items))
	var extra []model.Todo
	for _, t := range m.items {
		if o, ok := prevOrder[t.ID]; ok {
			t.Order = o
			restored = append(restored, t)
		} else {
			extra = append(extra, t)
		}
	}
	sortByRank(restored, rank)
	m.items = append(restored, extra...)
}

func sortByRank(todos []model.Todo, rank map[string]int) {
	sort.SliceStable(todos, func(i, j int) bool {
		return rank[todos[i].ID] < rank[todos[j].ID]
	})
}

func insertAt(ids []string, i int, id string) []string {
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func validationMessage(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Message
	}
	return err.Error()
}
