package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/components"
	"github.com/grovetools/hydrate/tui/components/table"
	"github.com/grovetools/hydrate/tui/theme"
)

// View renders the dashboard.
func (m *Model) View() string {
	t := theme.DefaultTheme
	if m.snap == nil {
		if m.errMsg != "" {
			return components.RenderError(m.errMsg) + "\n"
		}
		return t.Muted.Render("Loading…") + "\n"
	}
	s := m.snap

	var b strings.Builder
	b.WriteString(components.RenderHeader("hydrate", s.Date))
	b.WriteString("\n")

	figure := t.Water
	if s.Today >= s.Goal {
		figure = t.GoalMet
	}
	b.WriteString(figure.Render(fmt.Sprintf("%s %s", s.Emoji, units.Format(s.Today, s.Units))))
	b.WriteString(t.Muted.Render(" / " + units.Format(s.Goal, s.Units)))
	b.WriteString("\n")

	fraction := intake.Fraction(s.Today, s.Goal)
	b.WriteString(m.bar.ViewAs(fraction))
	b.WriteString(fmt.Sprintf(" %3d%%\n", intake.Percent(s.Today, s.Goal)))

	if left := intake.Remaining(s.Today, s.Goal); left > 0 {
		b.WriteString(t.Muted.Render(units.Format(left, s.Units) + " to go"))
	} else {
		b.WriteString(t.Success.Render(theme.IconGoal + " Goal reached!"))
	}
	b.WriteString("\n")

	if m.hasStaged {
		b.WriteString("\n")
		b.WriteString(t.Highlight.Render("Set today to " + units.Format(m.staged, s.Units) + "?"))
		b.WriteString(t.Muted.Render("  enter to save, esc to cancel"))
		b.WriteString("\n")
	}

	if m.inputMode {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(table.History(s.History, table.HistoryOptions{
		Goal:  s.Goal,
		Units: s.Units,
		Emoji: s.Emoji,
		Today: s.Date,
		Theme: t,
	}))
	b.WriteString("\n")

	if m.scheduler != nil {
		b.WriteString(m.reminderStatus())
		b.WriteString("\n")
	}

	if m.banner != "" {
		title, body, _ := strings.Cut(m.banner, "\n")
		b.WriteString(components.RenderBanner(theme.IconBell, title, body))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(components.RenderError(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m *Model) reminderStatus() string {
	t := theme.DefaultTheme
	next := m.scheduler.Next()
	if len(next) == 0 {
		return t.Muted.Render(theme.IconBell + " Reminders off")
	}
	return t.Muted.Render(fmt.Sprintf("%s Next reminder %s", theme.IconBell, next[0].Format("15:04")))
}
