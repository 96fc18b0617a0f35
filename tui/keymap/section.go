package keymap

import "github.com/charmbracelet/bubbles/key"

// Section names used in help display.
const (
	SectionIntake   = "Intake"
	SectionStaging  = "Staged edit"
	SectionSettings = "Settings"
	SectionSystem   = "System"
)

// Section represents a logical grouping of keybindings for structured help display.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// NewSection creates a section with the given name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// FilterEnabled returns a new slice containing only enabled bindings.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}

// IsEmpty returns true if the section has no enabled bindings.
func (s Section) IsEmpty() bool {
	for _, b := range s.Bindings {
		if b.Enabled() {
			return false
		}
	}
	return true
}
