// Package tui holds terminal setup shared by hydrate's interactive screens.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal environment for TUI applications.
// CLICOLOR_FORCE or COLORTERM=truecolor force full color, and NO_COLOR
// disables color entirely. With none of them set the profile detected by
// lipgloss is kept.
//
// Call it at the start of a command that starts a bubbletea program.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
