// Package dashboard is the interactive daily view: today's intake against
// the goal, the last week of history, and quick edits.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/reminders"
	"github.com/grovetools/hydrate/pkg/rollover"
	"github.com/grovetools/hydrate/pkg/settings"
	"github.com/grovetools/hydrate/tui/keymap"
	"github.com/grovetools/hydrate/tui/theme"
)

const (
	// eventBuffer bounds bus events waiting for the program.
	eventBuffer = 64
	// opTimeout bounds a single store operation started from a key press.
	opTimeout = 5 * time.Second
	barWidth  = 40
)

// Options configure a dashboard Model.
type Options struct {
	// Scheduler, when set, is toggled with the reminders key.
	Scheduler *reminders.Scheduler
	// Hours are scheduled when reminders are switched on.
	Hours []int
	// Rollover, when set, is checked on every tick.
	Rollover *rollover.Watcher
	// Keys defaults to keymap.NewDashboard.
	Keys *keymap.Dashboard
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	svc       *settings.Service
	scheduler *reminders.Scheduler
	hours     []int
	rollover  *rollover.Watcher

	keys  keymap.Dashboard
	help  help.Model
	bar   progress.Model
	input textinput.Model

	snap      *intake.Snapshot
	staged    int
	hasStaged bool
	inputMode bool
	banner    string
	errMsg    string
	width     int

	events chan tea.Msg
	unsub  []func()
}

// New creates a dashboard over the given settings service. The model
// subscribes to the service's bus; call Close when the program exits.
func New(svc *settings.Service, opts Options) *Model {
	keys := keymap.NewDashboard()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	if opts.Scheduler == nil {
		keys.Reminders.SetEnabled(false)
	}

	t := theme.DefaultTheme
	bar := progress.New(
		progress.WithSolidFill(theme.Hex(t.Colors.Blue)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = theme.Hex(t.Colors.Track)

	input := textinput.New()
	input.Placeholder = "8, 12oz or 350ml"
	input.CharLimit = 12
	input.Prompt = theme.IconWater + " "
	input.PromptStyle = t.Water
	input.PlaceholderStyle = t.Placeholder

	m := &Model{
		svc:       svc,
		scheduler: opts.Scheduler,
		hours:     opts.Hours,
		rollover:  opts.Rollover,
		keys:      keys,
		help:      help.New(),
		bar:       bar,
		input:     input,
		events:    make(chan tea.Msg, eventBuffer),
	}
	m.subscribe(svc.Bus())
	return m
}

// Bus events are forwarded to the program as messages.
type (
	goalMsg     events.GoalChanged
	emojiMsg    events.EmojiChanged
	intakeMsg   events.IntakeChanged
	rolloverMsg events.DayRolledOver
	reminderMsg reminders.Reminder
)

type snapshotMsg struct {
	snap *intake.Snapshot
	err  error
}

// resultMsg reports the outcome of an edit. Successful edits are also
// announced on the bus.
type resultMsg struct {
	err error
}

type tickMsg time.Time

func (m *Model) subscribe(bus *events.Bus) {
	m.unsub = append(m.unsub,
		bus.OnGoalChanged(func(e events.GoalChanged) { m.send(goalMsg(e)) }),
		bus.OnEmojiChanged(func(e events.EmojiChanged) { m.send(emojiMsg(e)) }),
		bus.OnIntakeChanged(func(e events.IntakeChanged) { m.send(intakeMsg(e)) }),
		bus.OnRollover(func(e events.DayRolledOver) { m.send(rolloverMsg(e)) }),
	)
}

// send never blocks a publisher; a full buffer drops the event and the
// next snapshot reload catches up.
func (m *Model) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// Notifier delivers reminders as an in-dashboard banner.
func (m *Model) Notifier() reminders.Notifier {
	return reminders.NotifierFunc(func(_ context.Context, r reminders.Reminder) error {
		m.send(reminderMsg(r))
		return nil
	})
}

// Close detaches the model from the bus.
func (m *Model) Close() {
	for _, fn := range m.unsub {
		fn()
	}
	m.unsub = nil
}

// Init loads the snapshot and starts listening for events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load(), m.waitForEvent()}
	if m.rollover != nil {
		cmds = append(cmds, m.tick())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.rollover.Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		snap, err := m.svc.Store().Snapshot(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// run performs an edit off the update loop.
func (m *Model) run(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return resultMsg{err: op(ctx)}
	}
}
