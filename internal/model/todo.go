package model

import (
	"fmt"
	"strings"
	"time"
)

type Todo struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Done      bool      `json:"done"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderPair assigns a display position to a single todo.
type OrderPair struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func (f Filter) IsValid() bool {
	return f == FilterAll || f == FilterActive || f == FilterCompleted
}

// Match reports whether t belongs in the view selected by f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// ParseFilter accepts the filter names case-insensitively; empty means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(s))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return f, nil
}

// FilterTodos returns the todos matching f, preserving order.
func FilterTodos(todos []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// OrderPairs derives positions from the order of ids: the first id gets 0.
func OrderPairs(ids []string) []OrderPair {
	pairs := make([]OrderPair, len(ids))
	for i, id := range ids {
		pairs[i] = OrderPair{ID: id, Order: i}
	}
	return pairs
}
