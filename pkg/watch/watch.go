// Package watch propagates edits made by other hydrate processes. It
// watches the storage file and, after writes settle, re-reads the store and
// publishes an event for every value that differs from what this process
// last saw.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long writes must be quiet before a refresh.
const DefaultDebounce = 100 * time.Millisecond

// view is the last observed value of everything that is published.
type view struct {
	date   string
	intake int
	goal   int
	units  units.System
	emoji  string
}

// Watcher refreshes the bus from the store when the storage file changes.
type Watcher struct {
	store    *intake.Store
	bus      *events.Bus
	path     string
	debounce time.Duration
	logger   *logrus.Entry
	watcher  *fsnotify.Watcher

	mu          sync.Mutex
	seen        view
	timer       *time.Timer
	unsubscribe []func()
}

// New creates a Watcher for the storage file at path. The file does not
// need to exist yet; its directory is watched.
func New(ctx context.Context, store *intake.Store, bus *events.Bus, path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		bus:      bus,
		path:     path,
		debounce: debounce,
		logger:   logging.NewLogger("watch"),
		watcher:  fw,
	}
	seen, err := w.read(ctx)
	if err != nil {
		fw.Close()
		return nil, err
	}
	w.seen = seen
	w.track()
	return w, nil
}

// track keeps the baseline current with edits made in this process so they
// are not published twice.
func (w *Watcher) track() {
	w.unsubscribe = append(w.unsubscribe,
		w.bus.OnGoalChanged(func(e events.GoalChanged) {
			w.mu.Lock()
			w.seen.goal, w.seen.units = e.Goal, e.Units
			w.mu.Unlock()
		}),
		w.bus.OnEmojiChanged(func(e events.EmojiChanged) {
			w.mu.Lock()
			w.seen.emoji = e.Glyph
			w.mu.Unlock()
		}),
		w.bus.OnIntakeChanged(func(e events.IntakeChanged) {
			w.mu.Lock()
			w.seen.date, w.seen.intake = e.Date, e.Intake
			w.mu.Unlock()
		}),
	)
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.matches(event.Name) {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			w.schedule(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

// matches accepts the storage file and its sqlite companions (-wal, -shm).
func (w *Watcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), filepath.Base(w.path))
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Refresh(ctx); err != nil {
			w.logger.WithError(err).Warn("Failed to refresh after external change")
		}
	})
}

// Refresh re-reads the store and publishes what changed.
func (w *Watcher) Refresh(ctx context.Context) error {
	now, err := w.read(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	prev := w.seen
	w.seen = now
	w.mu.Unlock()

	if now.goal != prev.goal || now.units != prev.units {
		w.logger.WithFields(logrus.Fields{"goal": now.goal, "units": now.units}).Info("Goal changed externally")
		w.bus.PublishGoalChanged(events.GoalChanged{Goal: now.goal, Units: now.units})
	}
	if now.emoji != prev.emoji {
		w.bus.PublishEmojiChanged(events.EmojiChanged{Glyph: now.emoji})
	}
	if now.date == prev.date && now.intake != prev.intake {
		w.logger.WithField("intake", now.intake).Info("Intake changed externally")
		w.bus.PublishIntakeChanged(events.IntakeChanged{Date: now.date, Intake: now.intake})
	}
	return nil
}

func (w *Watcher) read(ctx context.Context) (view, error) {
	snap, err := w.store.Snapshot(ctx)
	if err != nil {
		return view{}, err
	}
	return view{
		date:   snap.Date,
		intake: snap.Today,
		goal:   snap.Goal,
		units:  snap.Units,
		emoji:  snap.Emoji,
	}, nil
}

// Close stops watching and detaches from the bus.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	unsubscribe := w.unsubscribe
	w.unsubscribe = nil
	w.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	return w.watcher.Close()
}
