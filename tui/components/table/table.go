package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/theme"
)

// BarWidth is the width of the fill bar in a history row.
const BarWidth = 20

// NewStyledTable creates a new lipgloss table with hydrate's default styling.
// Headers set through Headers are styled by the table, so StyleFunc row
// indices start at the first data row.
func NewStyledTable(t *theme.Theme) *ltable.Table {
	if t == nil {
		t = theme.DefaultTheme
	}
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.TableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.TableHeader
			}
			return t.TableRow
		})
}

// StatusTable renders label/value pairs without a border.
func StatusTable(items [][]string) string {
	t := theme.DefaultTheme
	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(1)
		})

	for _, item := range items {
		if len(item) >= 2 {
			table = table.Row(t.Muted.Render(item[0]+":"), item[1])
		}
	}
	return table.String()
}

// HistoryOptions control how History renders amounts.
type HistoryOptions struct {
	Goal  int
	Units units.System
	Emoji string
	// Today is highlighted when it appears in the entries.
	Today string
	Theme *theme.Theme
}

// History renders one row per day: date, amount, a fill bar and percent.
func History(entries []intake.DayEntry, opts HistoryOptions) string {
	t := opts.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	table := NewStyledTable(t).Headers("Date", "Intake", "Progress", "%")
	for _, e := range entries {
		date := e.Date
		if e.Date == opts.Today {
			date = t.Highlight.Render(e.Date)
		}
		amount := units.Format(e.Intake, opts.Units)
		if opts.Goal > 0 && e.Intake >= opts.Goal && opts.Emoji != "" {
			amount += " " + opts.Emoji
		}
		table = table.Row(date, amount, Bar(t, intake.Fraction(e.Intake, opts.Goal), BarWidth), percent(e.Intake, opts.Goal))
	}
	return table.String()
}

// Bar renders fraction as a filled track of the given width.
func Bar(t *theme.Theme, fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	style := t.Water
	if fraction >= 1 {
		style = t.GoalMet
	}
	return style.Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.Colors.Track).Render(strings.Repeat("░", width-filled))
}

func percent(intakeOz, goal int) string {
	return fmt.Sprintf("%d%%", intake.Percent(intakeOz, goal))
}
