package reminders

import (
	"context"

	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/tui/theme"
)

// Reminder is the content of one drink reminder.
type Reminder struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, r Reminder) error { return f(ctx, r) }

// LogNotifier prints reminders to the writer attached to the context and
// records them in the log.
type LogNotifier struct {
	ulog *logging.UnifiedLogger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{ulog: logging.NewUnifiedLogger("reminders")}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	styled := theme.DefaultTheme.Water.Render(theme.IconBell+" "+r.Title) + "  " + theme.DefaultTheme.Muted.Render(r.Body)
	n.ulog.Status(r.Title).
		Field("body", r.Body).
		Pretty(styled).
		Log(ctx)
	return nil
}
