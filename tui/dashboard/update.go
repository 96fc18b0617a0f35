package dashboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/settings"
	"github.com/grovetools/hydrate/pkg/units"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.snap = msg.snap
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
		} else {
			m.errMsg = ""
		}
		return m, nil

	case goalMsg:
		if m.snap != nil {
			m.snap.Goal, m.snap.Units = msg.Goal, msg.Units
		}
		return m, m.waitForEvent()

	case emojiMsg:
		if m.snap != nil {
			m.snap.Emoji = msg.Glyph
		}
		return m, m.waitForEvent()

	case intakeMsg:
		m.applyIntake(msg.Date, msg.Intake)
		return m, m.waitForEvent()

	case rolloverMsg:
		m.hasStaged = false
		return m, tea.Batch(m.load(), m.waitForEvent())

	case reminderMsg:
		m.banner = msg.Title
		if msg.Body != "" {
			m.banner += "\n" + msg.Body
		}
		return m, m.waitForEvent()

	case tickMsg:
		m.rollover.Check()
		return m, m.tick()

	case tea.KeyMsg:
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses a reminder banner.
	m.banner = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Cancel):
		m.hasStaged = false
		m.errMsg = ""

	case key.Matches(msg, m.keys.AddCup):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.svc.AddCup(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Increase):
		m.stage(m.step())

	case key.Matches(msg, m.keys.Decrease):
		m.stage(-m.step())

	case key.Matches(msg, m.keys.Confirm):
		if !m.hasStaged {
			return m, nil
		}
		value := m.staged
		m.hasStaged = false
		return m, m.run(func(ctx context.Context) error {
			return m.svc.SetIntake(ctx, value, units.Imperial)
		})

	case key.Matches(msg, m.keys.QuickAdd):
		m.inputMode = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Reset):
		m.hasStaged = false
		return m, m.run(m.svc.Reset)

	case key.Matches(msg, m.keys.Units):
		next := units.Metric
		if m.snap != nil && m.snap.Units == units.Metric {
			next = units.Imperial
		}
		return m, m.run(func(ctx context.Context) error {
			return m.svc.SetUnits(ctx, next)
		})

	case key.Matches(msg, m.keys.Reminders):
		m.toggleReminders()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil

	case msg.Type == tea.KeyEnter:
		raw := m.input.Value()
		m.closeInput()
		system := units.Imperial
		if m.snap != nil {
			system = m.snap.Units
		}
		q, err := settings.ParseQuantity(raw, system)
		if err != nil {
			m.errMsg = userMessage(err)
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			_, err := m.svc.QuickAdd(ctx, q.Value, q.Units)
			return err
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.inputMode = false
	m.input.Blur()
}

// stage moves the pending value by delta ounces, starting from today's
// intake and never going below zero.
func (m *Model) stage(delta int) {
	if !m.hasStaged {
		m.staged = m.today()
		m.hasStaged = true
	}
	m.staged += delta
	if m.staged < 0 {
		m.staged = 0
	}
}

func (m *Model) step() int {
	return m.svc.Store().Options().DefaultCup
}

func (m *Model) today() int {
	if m.snap == nil {
		return 0
	}
	return m.snap.Today
}

func (m *Model) applyIntake(date string, total int) {
	if m.snap == nil || m.snap.Date != date {
		return
	}
	m.snap.Today = total
	if n := len(m.snap.History); n > 0 && m.snap.History[n-1].Date == date {
		m.snap.History[n-1] = intake.DayEntry{Date: date, Intake: total}
	}
}

func (m *Model) toggleReminders() {
	if m.scheduler == nil {
		return
	}
	if m.scheduler.Scheduled() {
		m.scheduler.Cancel()
		m.banner = "Reminders off"
		return
	}
	if err := m.scheduler.Schedule(m.hours); err != nil {
		m.errMsg = userMessage(err)
		return
	}
	m.banner = "Reminders on at " + formatHours(m.scheduler.Hours())
}

func formatHours(hours []int) string {
	s := ""
	for i, h := range hours {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%02d:00", h)
	}
	return s
}

// userMessage prefers the validation text over the coded error string.
func userMessage(err error) string {
	if herr, ok := errors.As(err); ok && herr.Code == errors.ErrCodeInvalidInput {
		return herr.Message
	}
	return err.Error()
}
