// Package tui renders the todo list in the terminal with Bubble Tea. All
// list state lives in a listview.Model; this package maps keys to its
// actions and runs the resulting commands against a backend.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaekwang-park/todo-list/internal/listview"
	"github.com/jaekwang-park/todo-list/internal/model"
	"github.com/jaekwang-park/todo-list/internal/validation"
)

type Options struct {
	Theme          string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

type mode int

const (
	modeBrowse mode = iota
	modeAdding
	modeEditing
)

type resultMsg listview.Result

type tickMsg time.Time

type Model struct {
	list    *listview.Model
	backend listview.Backend
	opts    Options
	logger  *slog.Logger

	theme Theme
	keys  keyMap
	help  help.Model
	input textinput.Model

	mode   mode
	editID string
	cursor int
	width  int
}

// New builds the program model. A nil list starts empty and syncs on Init;
// a seeded one is shown right away.
func New(backend listview.Backend, list *listview.Model, opts Options) Model {
	if list == nil {
		list = listview.New()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = listview.PollInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = validation.MaxInputLength

	return Model{
		list:    list,
		backend: backend,
		opts:    opts,
		logger:  logger,
		theme:   ThemeByName(opts.Theme),
		keys:    defaultKeys(),
		help:    help.New(),
		input:   ti,
		width:   80,
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	var first tea.Cmd
	if m.list.Status() == listview.StatusUninitialized {
		first = m.run(m.list.Mount())
	}
	return tea.Batch(first, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// run executes a list command off the update loop with a per-request timeout.
func (m Model) run(cmd listview.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	backend, timeout := m.backend, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resultMsg(cmd(ctx, backend))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.run(m.list.Poll()), m.tick())

	case resultMsg:
		r := listview.Result(msg)
		m.list.Apply(r)
		if r.Err != nil {
			m.logger.Warn("todo action failed", "action", r.Action, "error", r.Err)
		} else {
			m.logger.Debug("todo action done", "action", r.Action)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		// a stale error from an earlier action must not read as a rejection
		m.list.DismissError()
		var cmd listview.Cmd
		if m.mode == modeAdding {
			cmd = m.list.Create(m.input.Value())
		} else {
			cmd = m.list.Edit(m.editID, m.input.Value())
		}
		if cmd == nil && m.list.Err() != "" {
			// invalid text: keep the input open so it can be fixed
			return m, nil
		}
		if m.mode == modeAdding {
			m.cursor = len(m.list.Visible()) - 1
		}
		m.closeInput()
		m.clampCursor()
		return m, m.run(cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdding
		m.input.Placeholder = "What needs to be done?"
		m.input.SetValue("")
		m.list.DismissError()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		if !ok || m.list.IsPending(selected.ID) {
			return m, nil
		}
		m.mode = modeEditing
		m.editID = selected.ID
		m.input.Placeholder = "Edit todo"
		m.input.SetValue(selected.Input)
		m.input.CursorEnd()
		m.list.DismissError()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if ok {
			return m, m.run(m.list.Toggle(selected.ID))
		}
	case key.Matches(msg, m.keys.Delete):
		if ok {
			cmd := m.list.Delete(selected.ID)
			m.clampCursor()
			return m, m.run(cmd)
		}
	case key.Matches(msg, m.keys.ClearCompleted):
		cmd := m.list.ClearCompleted()
		m.clampCursor()
		return m, m.run(cmd)
	case key.Matches(msg, m.keys.MoveUp):
		if ok {
			return m.move(selected.ID, -1)
		}
	case key.Matches(msg, m.keys.MoveDown):
		if ok {
			return m.move(selected.ID, 1)
		}
	case key.Matches(msg, m.keys.All):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.Done):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggle()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.list.Refresh())
	case key.Matches(msg, m.keys.Dismiss):
		m.list.DismissError()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) move(id string, delta int) (tea.Model, tea.Cmd) {
	cmd := m.list.Move(id, delta)
	if cmd != nil {
		m.cursor += delta
		m.clampCursor()
	}
	return m, m.run(cmd)
}

func (m *Model) setFilter(f model.Filter) {
	m.list.SetFilter(f)
	m.clampCursor()
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) selected() (model.Todo, bool) {
	visible := m.list.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Todo{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.list.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.items())

	if m.mode != modeBrowse {
		title := "Add todo"
		if m.mode == modeEditing {
			title = "Edit todo"
		}
		if msg := m.list.Err(); msg != "" {
			title += "  " + m.theme.Error.Render(msg)
		}
		b.WriteString("\n")
		b.WriteString(m.theme.Border.Render(title + "\n" + m.input.View()))
	}

	b.WriteString("\n\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) items() string {
	visible := m.list.Visible()
	if len(visible) == 0 {
		switch m.list.Status() {
		case listview.StatusUninitialized, listview.StatusSyncing:
			return m.theme.Muted.Render("  Loading…")
		default:
			return m.theme.Muted.Render("  Nothing to do.")
		}
	}

	lines := make([]string, len(visible))
	for i, t := range visible {
		box := m.theme.Muted.Render(m.theme.BoxUnchecked)
		text := t.Input
		if t.Done {
			box = m.theme.Success.Render(m.theme.BoxChecked)
			text = m.theme.Done.Render(text)
		}
		if m.list.IsPending(t.ID) {
			text += m.theme.Pending.Render(" …")
		}

		prefix := "  "
		if i == m.cursor {
			prefix = m.theme.Selected.Render(">") + " "
		}
		lines[i] = fmt.Sprintf("%s%s %s", prefix, box, text)
	}
	return strings.Join(lines, "\n")
}

func (m Model) header() string {
	title := m.theme.Title.Render("todos")
	var status string
	switch {
	case m.list.Status() == listview.StatusSyncing:
		status = m.theme.Pending.Render("syncing")
	case m.list.Pending() > 0:
		status = m.theme.Pending.Render(fmt.Sprintf("saving %d", m.list.Pending()))
	}
	right := m.theme.Accent.Render(m.theme.Indicator)
	if status != "" {
		right = status + "  " + right
	}
	return title + "   " + right
}

func (m Model) footer() string {
	left := m.list.ItemsLeft()
	noun := "items"
	if left == 1 {
		noun = "item"
	}

	filters := []struct {
		f     model.Filter
		label string
	}{
		{model.FilterAll, "All"},
		{model.FilterActive, "Active"},
		{model.FilterCompleted, "Completed"},
	}
	tabs := make([]string, len(filters))
	for i, f := range filters {
		if m.list.Filter() == f.f {
			tabs[i] = m.theme.Accent.Render("[" + f.label + "]")
		} else {
			tabs[i] = m.theme.Muted.Render(f.label)
		}
	}

	line := fmt.Sprintf("%d %s left   %s", left, noun, strings.Join(tabs, " "))
	if msg := m.list.Err(); msg != "" && m.mode == modeBrowse {
		line += "\n" + m.theme.Error.Render("✖ "+msg)
	}
	return line
}
