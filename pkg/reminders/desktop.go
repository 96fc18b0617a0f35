package reminders

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/grovetools/hydrate/command"
	"github.com/grovetools/hydrate/errors"
	"github.com/sirupsen/logrus"
)

// DesktopNotifier shows reminders as native desktop notifications using
// notify-send on Linux and osascript on macOS.
type DesktopNotifier struct {
	builder *command.Builder
	goos    string
	logger  *logrus.Entry
}

// NewDesktopNotifier creates a DesktopNotifier for the running platform.
func NewDesktopNotifier(logger *logrus.Entry) *DesktopNotifier {
	return newDesktopNotifier(command.NewBuilder(), runtime.GOOS, logger)
}

func newDesktopNotifier(b *command.Builder, goos string, logger *logrus.Entry) *DesktopNotifier {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DesktopNotifier{builder: b, goos: goos, logger: logger.WithField("notifier", "desktop")}
}

// Supported reports whether the platform's notification tool is installed.
func (n *DesktopNotifier) Supported() bool {
	program, _, err := n.invocation(Reminder{})
	return err == nil && n.builder.Available(program)
}

// Notify implements Notifier.
func (n *DesktopNotifier) Notify(ctx context.Context, r Reminder) error {
	program, args, err := n.invocation(r)
	if err != nil {
		return err
	}
	cmd, err := n.builder.Build(program, args...)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "reminder text cannot be sent to the desktop")
	}

	n.logger.WithField("command", cmd.String()).Debug("Sending desktop notification")
	if _, err := cmd.Run(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeScheduler, "desktop notification failed")
	}
	return nil
}

func (n *DesktopNotifier) invocation(r Reminder) (string, []string, error) {
	switch n.goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{"--app-name=hydrate", r.Title, r.Body}, nil
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(r.Body), appleScriptString(r.Title))
		return "osascript", []string{"-e", script}, nil
	default:
		return "", nil, errors.New(errors.ErrCodeScheduler, fmt.Sprintf("desktop notifications are not supported on %s", n.goos))
	}
}

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// WithDesktop adds a DesktopNotifier after base when desktop is set. A
// missing notification tool is logged once and base is returned alone.
func WithDesktop(base Notifier, desktop bool, logger *logrus.Entry) Notifier {
	if !desktop {
		return base
	}
	n := NewDesktopNotifier(logger)
	if !n.Supported() {
		n.logger.Warn("Desktop notifications requested but no notification tool was found")
		return base
	}
	return Multi(base, n)
}

// Multi delivers each reminder to every notifier, in order. Failures are
// collected and the remaining notifiers still run.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, r Reminder) error {
		var failed []string
		var first error
		for _, n := range notifiers {
			if n == nil {
				continue
			}
			if err := n.Notify(ctx, r); err != nil {
				if first == nil {
					first = err
				}
				failed = append(failed, err.Error())
			}
		}
		if len(failed) > 1 {
			return errors.New(errors.ErrCodeScheduler, strings.Join(failed, "; "))
		}
		return first
	})
}
