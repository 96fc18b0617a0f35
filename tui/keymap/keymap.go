package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Dashboard holds the dashboard keybindings. Field names map to snake_case
// keys under tui.keys in hydrate.yml.
type Dashboard struct {
	AddCup    key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Confirm   key.Binding
	QuickAdd  key.Binding
	Reset     key.Binding
	Reminders key.Binding
	Units     key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// NewDashboard returns the default bindings with overrides from config
// applied.
func NewDashboard() Dashboard {
	km := DefaultDashboard()
	ApplyOverrides(&km, LoadOverrides())
	return km
}

// DefaultDashboard returns the built-in bindings.
func DefaultDashboard() Dashboard {
	return Dashboard{
		AddCup: key.NewBinding(
			key.WithKeys("a", " "),
			key.WithHelp("a", "add a cup"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+", "=", "k", "up"),
			key.WithHelp("+", "stage more"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-", "j", "down"),
			key.WithHelp("-", "stage less"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		QuickAdd: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "quick add"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset today"),
		),
		Reminders: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle reminders"),
		),
		Units: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch units"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k Dashboard) ShortHelp() []key.Binding {
	return []key.Binding{k.AddCup, k.QuickAdd, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap, one column per section.
func (k Dashboard) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for _, s := range k.Sections() {
		if !s.IsEmpty() {
			columns = append(columns, s.FilterEnabled())
		}
	}
	return columns
}

// Sections groups the bindings for help display.
func (k Dashboard) Sections() []Section {
	return []Section{
		NewSection(SectionIntake, k.AddCup, k.QuickAdd, k.Reset),
		NewSection(SectionStaging, k.Increase, k.Decrease, k.Confirm, k.Cancel),
		NewSection(SectionSettings, k.Units, k.Reminders),
		NewSection(SectionSystem, k.Help, k.Quit),
	}
}
