// Package reminders schedules the daily drink reminders. The scheduler
// only knows whether reminders are scheduled; it never reads intake.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/logging"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// notifyTimeout bounds a single delivery.
const notifyTimeout = 30 * time.Second

// Options configure a Scheduler.
type Options struct {
	Location *time.Location
	Reminder Reminder
	Logger   *logrus.Entry
	// Now is used by Next. Defaults to time.Now.
	Now func() time.Time
}

// Scheduler fires the notifier at fixed local hours each day.
type Scheduler struct {
	engine   *cron.Cron
	notifier Notifier
	reminder Reminder
	location *time.Location
	logger   *logrus.Entry
	now      func() time.Time

	mu      sync.Mutex
	entries []cron.EntryID
	hours   []int
	running bool
}

// New creates a stopped Scheduler with nothing scheduled.
func New(notifier Notifier, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Reminder.Title == "" {
		opts.Reminder.Title = config.DefaultReminderTitle
	}
	if opts.Reminder.Body == "" {
		opts.Reminder.Body = config.DefaultReminderBody
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("reminders")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cronLogger := cron.PrintfLogger(opts.Logger)
	return &Scheduler{
		engine: cron.New(
			cron.WithLocation(opts.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		notifier: notifier,
		reminder: opts.Reminder,
		location: opts.Location,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// FromConfig creates a Scheduler using the reminders section of cfg.
func FromConfig(cfg *config.Config, notifier Notifier) *Scheduler {
	return New(notifier, Options{
		Location: cfg.Location(),
		Reminder: Reminder{Title: cfg.Reminders.Title, Body: cfg.Reminders.Body},
	})
}

// Schedule replaces any existing reminders with one per hour at minute 0.
// An empty list uses the default hours.
func (s *Scheduler) Schedule(hours []int) error {
	if len(hours) == 0 {
		hours = config.DefaultReminderHours
	}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return errors.SchedulerFailed(fmt.Errorf("hour %d out of range 0-23", h)).WithDetail("hour", h)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	for _, h := range hours {
		hour := h
		id, err := s.engine.AddFunc(fmt.Sprintf("0 %d * * *", hour), func() { s.fire(hour) })
		if err != nil {
			s.cancelLocked()
			return errors.SchedulerFailed(err).WithDetail("hour", hour)
		}
		s.entries = append(s.entries, id)
	}
	s.hours = append([]int(nil), hours...)
	sort.Ints(s.hours)

	s.logger.WithField("hours", s.hours).Info("Scheduled reminders")
	return nil
}

// Cancel removes every scheduled reminder.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) > 0 {
		s.logger.Info("Cancelled reminders")
	}
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	for _, id := range s.entries {
		s.engine.Remove(id)
	}
	s.entries = nil
	s.hours = nil
}

// Scheduled reports whether any reminders are registered.
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0
}

// Hours returns the scheduled hours in ascending order.
func (s *Scheduler) Hours() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.hours...)
}

// Next returns the upcoming fire time of each reminder, soonest first.
func (s *Scheduler) Next() []time.Time {
	s.mu.Lock()
	ids := append([]cron.EntryID(nil), s.entries...)
	s.mu.Unlock()

	now := s.now().In(s.location)
	next := make([]time.Time, 0, len(ids))
	for _, id := range ids {
		entry := s.engine.Entry(id)
		if !entry.Valid() {
			continue
		}
		next = append(next, entry.Schedule.Next(now))
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Before(next[j]) })
	return next
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.engine.Start()
}

// Stop halts the scheduler and waits for a running notification to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()
	<-s.engine.Stop().Done()
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

// Fire delivers the reminder immediately.
func (s *Scheduler) Fire(ctx context.Context) error {
	return s.notifier.Notify(ctx, s.reminder)
}

func (s *Scheduler) fire(hour int) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.Fire(ctx); err != nil {
		s.logger.WithError(err).WithField("hour", hour).Error("Failed to deliver reminder")
	}
}
