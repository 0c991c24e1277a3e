package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaekwang-park/todo-list/internal/listview"
	"github.com/jaekwang-park/todo-list/internal/repository"
	"github.com/jaekwang-park/todo-list/internal/service"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel returns a model over an in-memory service holding texts, in
// that order.
func newTestModel(t *testing.T, texts ...string) (Model, *service.TodoService) {
	t.Helper()
	svc := service.NewTodoService(repository.NewMemoryTodo())
	for _, text := range texts {
		if _, err := svc.CreateTodo(context.Background(), text); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	todos, err := svc.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lv := listview.New()
	lv.Seed(todos)
	return New(svc, lv, Options{}), svc
}

// press sends msg and, when it yields a backend command, runs it and feeds
// the result back.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if m.mode != modeBrowse {
		// focus blink; nothing to run
		return m
	}
	if res, ok := cmd().(resultMsg); ok {
		next, _ = m.Update(res)
		m = next.(Model)
	}
	return m
}

func inputs(m Model) string {
	visible := m.list.Visible()
	out := make([]string, len(visible))
	for i, t := range visible {
		out[i] = t.Input
	}
	return strings.Join(out, ",")
}

func TestModel_AddTodo(t *testing.T) {
	m, svc := newTestModel(t)

	m = press(t, m, runeKey("a"))
	if m.mode != modeAdding {
		t.Fatal("expected add mode")
	}
	m.input.SetValue("Buy milk")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Error("expected input closed")
	}
	todos, _ := svc.ListTodos(context.Background())
	if len(todos) != 1 || todos[0].Input != "Buy milk" || todos[0].Done {
		t.Fatalf("unexpected stored todos %+v", todos)
	}
	if inputs(m) != "Buy milk" || m.list.IsPending(m.list.Items()[0].ID) {
		t.Errorf("expected reconciled item, got %+v", m.list.Items())
	}
	if !strings.Contains(m.View(), "1 item left") {
		t.Errorf("footer missing count:\n%s", m.View())
	}
}

func TestModel_AddEmptyKeepsInputOpen(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runeKey("a"))
	m.input.SetValue("   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeAdding {
		t.Error("expected input to stay open")
	}
	if !strings.Contains(m.View(), "todo can't be empty") {
		t.Errorf("expected validation message in view:\n%s", m.View())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse {
		t.Error("expected esc to close input")
	}
}

func TestModel_EditToggleDelete(t *testing.T) {
	m, svc := newTestModel(t, "A", "B")

	m = press(t, m, runeKey("e"))
	if m.mode != modeEditing || m.input.Value() != "A" {
		t.Fatalf("expected edit of A, got mode=%d value=%q", m.mode, m.input.Value())
	}
	m.input.SetValue("A2")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.list.Items()[0].Done {
		t.Error("expected A2 done")
	}

	m = press(t, m, runeKey("j"))
	m = press(t, m, runeKey("d"))

	todos, _ := svc.ListTodos(context.Background())
	if len(todos) != 1 || todos[0].Input != "A2" || !todos[0].Done {
		t.Fatalf("unexpected stored todos %+v", todos)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestModel_MoveAndClear(t *testing.T) {
	m, svc := newTestModel(t, "A", "B", "C")

	m = press(t, m, runeKey("J"))
	if inputs(m) != "B,A,C" || m.cursor != 1 {
		t.Fatalf("expected B,A,C with cursor on A, got %s cursor=%d", inputs(m), m.cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(t, m, runeKey("K"))
	if inputs(m) != "A,B,C" || m.cursor != 0 {
		t.Fatalf("expected A,B,C with cursor on A, got %s cursor=%d", inputs(m), m.cursor)
	}

	m = press(t, m, runeKey("C"))
	todos, _ := svc.ListTodos(context.Background())
	if len(todos) != 2 || todos[0].Input != "B" || todos[1].Input != "C" {
		t.Fatalf("unexpected stored todos %+v", todos)
	}
}

func TestModel_FiltersAndTheme(t *testing.T) {
	m, _ := newTestModel(t, "A", "B")
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	tests := []struct {
		key  string
		want string
	}{
		{"2", "B"},
		{"3", "A"},
		{"1", "A,B"},
	}
	for _, tt := range tests {
		m = press(t, m, runeKey(tt.key))
		if got := inputs(m); got != tt.want {
			t.Errorf("after %s: visible = %s, want %s", tt.key, got, tt.want)
		}
	}

	if m.theme.Name != ThemeDark {
		t.Fatalf("expected dark default, got %s", m.theme.Name)
	}
	m = press(t, m, runeKey("t"))
	if m.theme.Name != ThemeLight || !strings.Contains(m.View(), "light") {
		t.Error("expected light theme after toggle")
	}
}

type failingBackend struct {
	listview.Backend
}

func (failingBackend) DeleteTodo(context.Context, string) error {
	return errors.New("connection refused")
}

func TestModel_FailedDeleteShowsError(t *testing.T) {
	m, svc := newTestModel(t, "A")
	m.backend = failingBackend{Backend: svc}

	m = press(t, m, runeKey("d"))

	if inputs(m) != "A" {
		t.Errorf("expected A restored, got %s", inputs(m))
	}
	if !strings.Contains(m.View(), "could not delete todo: connection refused") {
		t.Errorf("expected error in footer:\n%s", m.View())
	}

	m = press(t, m, runeKey("x"))
	if m.list.Err() != "" {
		t.Error("expected error dismissed")
	}
}

func TestModel_EarlierErrorDoesNotBlockUnchangedEdit(t *testing.T) {
	m, svc := newTestModel(t, "A")
	m.backend = failingBackend{Backend: svc}
	m = press(t, m, runeKey("d"))
	if m.list.Err() == "" {
		t.Fatal("expected an error from the failed delete")
	}

	m = press(t, m, runeKey("e"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Error("expected input closed when the text did not change")
	}
}

func TestModel_TickPolls(t *testing.T) {
	m, svc := newTestModel(t, "A")
	if _, err := svc.CreateTodo(context.Background(), "from elsewhere"); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected batch from tick, got %T", cmd())
	}
	// The first command is the poll; the second is the next tick.
	if res, ok := batch[0]().(resultMsg); ok {
		next, _ = m.Update(res)
		m = next.(Model)
	} else {
		t.Fatal("expected poll result")
	}

	if inputs(m) != "A,from elsewhere" {
		t.Errorf("expected polled list, got %s", inputs(m))
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestThemeByName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"light", ThemeLight},
		{"LIGHT", ThemeLight},
		{"dark", ThemeDark},
		{"", ThemeDark},
		{"neon", ThemeDark},
	}
	for _, tt := range tests {
		if got := ThemeByName(tt.in).Name; got != tt.want {
			t.Errorf("ThemeByName(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if DarkTheme().Toggle().Name != ThemeLight || LightTheme().Toggle().Name != ThemeDark {
		t.Error("toggle should alternate")
	}
}

var _ listview.Backend = failingBackend{}
