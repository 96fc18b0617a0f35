// Package components holds small render helpers shared by hydrate's
// screens and commands.
package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hydrate/tui/theme"
)

// RenderHeader creates a consistent header for TUIs
func RenderHeader(title string, subtitle ...string) string {
	t := theme.DefaultTheme

	header := t.Header.Render(theme.IconWater + " " + title)

	if len(subtitle) > 0 && subtitle[0] != "" {
		sub := t.Muted.Render(subtitle[0])
		return lipgloss.JoinVertical(lipgloss.Left, header, sub)
	}

	return header
}

// RenderFooter creates a consistent footer for TUIs
func RenderFooter(content string, width int) string {
	t := theme.DefaultTheme
	footerStyle := lipgloss.NewStyle().
		Foreground(t.Colors.MutedText).
		Width(width).
		Align(lipgloss.Center).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Colors.Border).
		MarginTop(1)

	return footerStyle.Render(content)
}

// RenderBanner renders a one-line notice, such as a reminder, in a box.
func RenderBanner(icon, title, body string) string {
	t := theme.DefaultTheme
	line := t.Info.Render(icon + " " + title)
	if body != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, "  ", t.Muted.Render(body))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Colors.Cyan).
		Padding(0, 1).
		Render(line)
}

// RenderError renders an inline validation or storage error.
func RenderError(msg string) string {
	if msg == "" {
		return ""
	}
	return theme.DefaultTheme.Error.Render(theme.IconError + " " + msg)
}
