package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme bundles the palette and symbols the view renders with.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Border   lipgloss.Style

	BoxChecked, BoxUnchecked string
	Indicator                string
}

func DarkTheme() Theme {
	return Theme{
		Name:         ThemeDark,
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Border:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		BoxChecked:   "☑",
		BoxUnchecked: "☐",
		Indicator:    "☾ dark",
	}
}

func LightTheme() Theme {
	return Theme{
		Name:         ThemeLight,
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("125")),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Selected:     lipgloss.NewStyle().Bold(true).Underline(true),
		Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Strikethrough(true),
		Border:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1),
		BoxChecked:   "[x]",
		BoxUnchecked: "[ ]",
		Indicator:    "☀ light",
	}
}

// ThemeByName falls back to the dark theme for unknown names.
func ThemeByName(name string) Theme {
	if strings.EqualFold(name, ThemeLight) {
		return LightTheme()
	}
	return DarkTheme()
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == ThemeLight {
		return DarkTheme()
	}
	return LightTheme()
}
