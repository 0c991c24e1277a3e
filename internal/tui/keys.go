package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down          key.Binding
	Add, Edit         key.Binding
	Toggle, Delete    key.Binding
	ClearCompleted    key.Binding
	MoveUp, MoveDown  key.Binding
	All, Active, Done key.Binding
	Theme, Refresh    key.Binding
	Dismiss           key.Binding
	Help, Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ClearCompleted: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		MoveUp:         key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:       key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		All:            key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Done:           key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Theme:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Add, k.Edit, k.Toggle, k.Delete, k.ClearCompleted},
		{k.All, k.Active, k.Done},
		{k.Theme, k.Refresh, k.Dismiss, k.Help, k.Quit},
	}
}
