// Package rollover detects the local calendar date advancing while hydrate
// is running. It only announces the change. Yesterday's record is already
// final, so nothing is written.
package rollover

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is how often Run compares dates when none is given.
const DefaultInterval = time.Minute

// Watcher compares the current date with the last one it observed.
type Watcher struct {
	clock    intake.Clock
	location *time.Location
	interval time.Duration
	bus      *events.Bus
	logger   *logrus.Entry

	mu   sync.Mutex
	last string
}

// Options configure a Watcher.
type Options struct {
	Clock    intake.Clock
	Location *time.Location
	Interval time.Duration
	Logger   *logrus.Entry
}

// New creates a Watcher that starts from the current date.
func New(bus *events.Bus, opts Options) *Watcher {
	if opts.Clock == nil {
		opts.Clock = intake.SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Interval <= 0 || opts.Interval > DefaultInterval {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("rollover")
	}
	w := &Watcher{
		clock:    opts.Clock,
		location: opts.Location,
		interval: opts.Interval,
		bus:      bus,
		logger:   opts.Logger,
	}
	w.last = w.today()
	return w
}

// ForStore creates a Watcher sharing the store's clock and timezone.
func ForStore(store *intake.Store, bus *events.Bus, interval time.Duration) *Watcher {
	opts := store.Options()
	return New(bus, Options{
		Clock:    opts.Clock,
		Location: opts.Location,
		Interval: interval,
		Logger:   logging.NewLogger("rollover"),
	})
}

// Interval returns the tick period.
func (w *Watcher) Interval() time.Duration { return w.interval }

// Current returns the last observed date.
func (w *Watcher) Current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Check compares once and publishes DayRolledOver if the date changed. It
// reports whether a rollover happened.
func (w *Watcher) Check() bool {
	now := w.today()

	w.mu.Lock()
	previous := w.last
	if now == previous {
		w.mu.Unlock()
		return false
	}
	w.last = now
	w.mu.Unlock()

	w.logger.WithFields(logrus.Fields{"previous": previous, "current": now}).Info("Day rolled over")
	w.bus.PublishRollover(events.DayRolledOver{Previous: previous, Current: now})
	return true
}

// Run checks every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

func (w *Watcher) today() string {
	return w.clock.Now().In(w.location).Format(intake.DateLayout)
}
