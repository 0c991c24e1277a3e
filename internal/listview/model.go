// Package listview holds the client-side state of the todo list: the
// optimistic copy of the items, the active filter, sync status and the last
// error. It performs no I/O itself; every action returns a Cmd for the caller
// to run and feed back through Apply.
package listview

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jaekwang-park/todo-list/internal/model"
)

// PollInterval is how often the list is re-fetched from the backend.
const PollInterval = 2 * time.Second

type Status int

const (
	StatusUninitialized Status = iota
	StatusSyncing
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusSyncing:
		return "syncing"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Counts summarizes the list regardless of the active filter.
type Counts struct {
	All       int
	Active    int
	Completed int
}

type Model struct {
	items       []model.Todo
	filter      model.Filter
	status      Status
	initialized bool
	err         string

	rev      uint64
	inflight int
	fetches  int
	creates  int
	stale    int
}

func New() *Model {
	return &Model{filter: model.FilterAll}
}

func (m *Model) Status() Status    { return m.status }
func (m *Model) Initialized() bool { return m.initialized }
func (m *Model) Filter() model.Filter {
	return m.filter
}

// Err is the message of the last failed action, or empty.
func (m *Model) Err() string { return m.err }

// DismissError clears the error message.
func (m *Model) DismissError() { m.err = "" }

// Pending is the number of mutations still waiting for the backend.
func (m *Model) Pending() int { return m.inflight }

// Stale is the number of fetch results discarded because a local change
// happened while they were in flight.
func (m *Model) Stale() int { return m.stale }

// Items returns a copy of every item in display order.
func (m *Model) Items() []model.Todo {
	out := make([]model.Todo, len(m.items))
	copy(out, m.items)
	return out
}

// Visible returns the items that pass the active filter, in display order.
func (m *Model) Visible() []model.Todo {
	return model.FilterTodos(m.items, m.filter)
}

// SetFilter changes the filter. Nothing is fetched.
func (m *Model) SetFilter(f model.Filter) {
	if f.IsValid() {
		m.filter = f
	}
}

func (m *Model) Counts() Counts {
	c := Counts{All: len(m.items)}
	for _, t := range m.items {
		if t.Done {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// ItemsLeft is the number of items not yet done.
func (m *Model) ItemsLeft() int {
	return m.Counts().Active
}

// IsPending reports whether id belongs to an item the backend has not
// confirmed yet.
func (m *Model) IsPending(id string) bool {
	return isTempID(id)
}

// Seed installs a list fetched before the view started, as if a sync had
// just succeeded.
func (m *Model) Seed(todos []model.Todo) {
	m.items = sortedCopy(todos)
	m.status = StatusReady
	m.initialized = true
	m.err = ""
}

// Apply folds a Cmd result into the model.
func (m *Model) Apply(r Result) {
	if r.finish != nil {
		r.finish(m)
	}
}

// Mount starts the first sync.
func (m *Model) Mount() Cmd {
	m.status = StatusSyncing
	return m.fetch()
}

// Poll returns a fetch when the list can be safely replaced, or nil while
// local changes or another fetch are in flight.
func (m *Model) Poll() Cmd {
	if m.status == StatusUninitialized || m.inflight > 0 || m.fetches > 0 {
		return nil
	}
	return m.fetch()
}

// Refresh fetches regardless of pending changes. The result is still
// dropped if it would overwrite one of them.
func (m *Model) Refresh() Cmd {
	if m.status == StatusUninitialized {
		return m.Mount()
	}
	return m.fetch()
}

func (m *Model) fetch() Cmd {
	issued := m.rev
	m.fetches++
	return func(ctx context.Context, b Backend) Result {
		todos, err := b.ListTodos(ctx)
		return Result{Action: actionLoad, Err: err, finish: func(m *Model) {
			m.fetches--
			if issued != m.rev || m.inflight > 0 {
				m.stale++
				return
			}
			m.initialized = true
			if err != nil {
				m.status = StatusError
				m.fail(actionLoad, err)
				return
			}
			m.items = sortedCopy(todos)
			m.status = StatusReady
			m.err = ""
		}}
	}
}

func (m *Model) indexOf(id string) int {
	for i, t := range m.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) fail(action string, err error) {
	m.err = fmt.Sprintf("could not %s: %v", action, err)
}

// begin and end both bump rev, so a fetch issued while a mutation was in
// flight is dropped even when the mutation settles before it returns.
func (m *Model) begin() {
	m.rev++
	m.inflight++
}

func (m *Model) end() {
	m.rev++
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m *Model) maxOrder() int {
	highest := 0
	for _, t := range m.items {
		if t.Order > highest {
			highest = t.Order
		}
	}
	return highest
}

func sortedCopy(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	copy(out, todos)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
