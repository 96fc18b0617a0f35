package intake

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// HistoryDays is the length of the rolling history window.
const HistoryDays = 7

// MaxHistoryDays bounds History, about ten years of point reads.
const MaxHistoryDays = 3650

// Options are the values injected at construction. Zero fields take the
// documented defaults from package config.
type Options struct {
	DefaultGoal  int
	DefaultCup   int
	DefaultEmoji string
	Location     *time.Location
	Clock        Clock
	Logger       *logrus.Entry
}

// OptionsFromConfig builds Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultGoal:  cfg.Defaults.Goal,
		DefaultCup:   cfg.Defaults.Cup,
		DefaultEmoji: cfg.Defaults.Emoji,
		Location:     cfg.Location(),
	}
}

// DayEntry is one day of history.
type DayEntry struct {
	Date   string `json:"date"`
	Intake int    `json:"intake"`
}

// Snapshot is everything a screen needs on mount.
type Snapshot struct {
	Date    string       `json:"date"`
	Today   int          `json:"today"`
	Goal    int          `json:"goal"`
	Units   units.System `json:"units"`
	Emoji   string       `json:"emoji"`
	History []DayEntry   `json:"history"`
}

// Store is the intake store. It is safe for concurrent use; writes to the
// same key are serialized, so concurrent AddCup calls never lose an
// increment.
type Store struct {
	kv     kv.Store
	opts   Options
	locks  keyLocks
	logger *logrus.Entry
}

// New creates a Store over the given medium.
func New(store kv.Store, opts Options) *Store {
	if opts.DefaultGoal == 0 {
		opts.DefaultGoal = config.DefaultGoal
	}
	if opts.DefaultCup == 0 {
		opts.DefaultCup = config.DefaultCup
	}
	if opts.DefaultEmoji == "" {
		opts.DefaultEmoji = config.DefaultEmoji
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("intake")
	}
	return &Store{kv: store, opts: opts, logger: logger}
}

// Options returns the effective options.
func (s *Store) Options() Options {
	return s.opts
}

// Now returns the current time in the store's location.
func (s *Store) Now() time.Time {
	return s.opts.Clock.Now().In(s.opts.Location)
}

// Today returns today's date as YYYY-MM-DD.
func (s *Store) Today() string {
	return s.Now().Format(DateLayout)
}

// TodayKey returns the key of today's record. It is recomputed on each call.
func (s *Store) TodayKey() string {
	return IntakeKey(s.Now())
}

// KeyForDaysAgo returns the record key for n days before today.
func (s *Store) KeyForDaysAgo(n int) string {
	return IntakeKey(DaysAgo(s.Now(), n))
}

// TodayIntake returns today's intake in ounces. An absent or malformed
// record reads as 0.
func (s *Store) TodayIntake(ctx context.Context) (int, error) {
	return s.intakeFor(ctx, s.TodayKey())
}

// AddCup adds amount ounces to today's record.
func (s *Store) AddCup(ctx context.Context, amount int) (int, error) {
	key := s.TodayKey()
	unlock := s.locks.lock(key)
	defer unlock()

	current, err := s.intakeFor(ctx, key)
	if err != nil {
		return 0, err
	}
	total := current + amount
	if err := s.kv.Set(ctx, key, strconv.Itoa(total)); err != nil {
		return 0, err
	}
	s.logger.WithFields(logrus.Fields{"key": key, "amount": amount, "total": total}).Debug("Added intake")
	return total, nil
}

// AddCupWithin adds amount ounces to today's record unless the total would
// exceed limit, in which case the record is left unchanged and an
// INVALID_INPUT error is returned.
func (s *Store) AddCupWithin(ctx context.Context, amount, limit int) (int, error) {
	key := s.TodayKey()
	unlock := s.locks.lock(key)
	defer unlock()

	current, err := s.intakeFor(ctx, key)
	if err != nil {
		return 0, err
	}
	if amount > limit || current > limit-amount {
		return current, errors.InvalidInput("amount",
			fmt.Sprintf("Adding %d oz to %d oz would pass the daily limit of %d oz.", amount, current, limit))
	}
	total := current + amount
	if err := s.kv.Set(ctx, key, strconv.Itoa(total)); err != nil {
		return 0, err
	}
	s.logger.WithFields(logrus.Fields{"key": key, "amount": amount, "total": total}).Debug("Added intake")
	return total, nil
}

// AddDefaultCup adds the configured cup size to today's record.
func (s *Store) AddDefaultCup(ctx context.Context) (int, error) {
	return s.AddCup(ctx, s.opts.DefaultCup)
}

// SetTodayIntake overwrites today's record.
func (s *Store) SetTodayIntake(ctx context.Context, amount int) error {
	key := s.TodayKey()
	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.kv.Set(ctx, key, strconv.Itoa(amount)); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"key": key, "total": amount}).Debug("Set intake")
	return nil
}

// ResetIntake sets today's record to 0.
func (s *Store) ResetIntake(ctx context.Context) error {
	return s.SetTodayIntake(ctx, 0)
}

// Goal returns the daily goal in ounces. An absent, malformed or
// non-positive record reads as the default goal.
func (s *Store) Goal(ctx context.Context) (int, error) {
	raw, ok, err := s.kv.Get(ctx, GoalKey)
	if err != nil || !ok {
		return s.opts.DefaultGoal, err
	}
	goal, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || goal <= 0 {
		s.logger.WithFields(logrus.Fields{"key": GoalKey, "value": raw}).Warn("Malformed goal, using default")
		return s.opts.DefaultGoal, nil
	}
	return goal, nil
}

// SetGoal stores the daily goal in ounces.
func (s *Store) SetGoal(ctx context.Context, goal int) error {
	return s.setScalar(ctx, GoalKey, strconv.Itoa(goal))
}

// Units returns the display unit preference, imperial when absent.
func (s *Store) Units(ctx context.Context) (units.System, error) {
	raw, ok, err := s.kv.Get(ctx, UnitsKey)
	if err != nil || !ok {
		return units.Imperial, err
	}
	system, err := units.Parse(raw)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": UnitsKey, "value": raw}).Warn("Malformed unit preference, using imperial")
		return units.Imperial, nil
	}
	return system, nil
}

// SetUnits stores the display unit preference.
func (s *Store) SetUnits(ctx context.Context, system units.System) error {
	return s.setScalar(ctx, UnitsKey, system.String())
}

// Emoji returns the display glyph, the default when absent or empty.
func (s *Store) Emoji(ctx context.Context) (string, error) {
	raw, ok, err := s.kv.Get(ctx, EmojiKey)
	if err != nil || !ok || raw == "" {
		return s.opts.DefaultEmoji, err
	}
	return raw, nil
}

// SetEmoji stores the display glyph.
func (s *Store) SetEmoji(ctx context.Context, glyph string) error {
	return s.setScalar(ctx, EmojiKey, glyph)
}

// IntakeHistory returns the last HistoryDays days, oldest first, ending
// today.
func (s *Store) IntakeHistory(ctx context.Context) ([]DayEntry, error) {
	return s.History(ctx, HistoryDays)
}

// History returns the last days days, oldest first, ending today. Each day
// is an independent point read; days without a record report 0.
func (s *Store) History(ctx context.Context, days int) ([]DayEntry, error) {
	if days < 1 {
		return nil, errors.InvalidInput("days", "history needs at least one day")
	}
	if days > MaxHistoryDays {
		return nil, errors.InvalidInput("days", fmt.Sprintf("history covers at most %d days", MaxHistoryDays))
	}
	return s.historyAt(ctx, s.Now(), days)
}

func (s *Store) historyAt(ctx context.Context, now time.Time, days int) ([]DayEntry, error) {
	entries := make([]DayEntry, days)
	for i := 0; i < days; i++ {
		day := DaysAgo(now, days-1-i)
		intake, err := s.intakeFor(ctx, IntakeKey(day))
		if err != nil {
			return nil, err
		}
		entries[i] = DayEntry{Date: day.Format(DateLayout), Intake: intake}
	}
	return entries, nil
}

// Snapshot reads today's intake, the preferences and the history
// concurrently. All of them refer to the same instant, so Date, Today and
// the last History entry agree even across midnight.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := s.Now()
	snap := &Snapshot{Date: now.Format(DateLayout)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Today, err = s.intakeFor(gctx, IntakeKey(now))
		return err
	})
	g.Go(func() (err error) {
		snap.Goal, err = s.Goal(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Units, err = s.Units(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Emoji, err = s.Emoji(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.History, err = s.historyAt(gctx, now, HistoryDays)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Records returns every stored intake record, oldest first. The medium must
// implement kv.Lister.
func (s *Store) Records(ctx context.Context) ([]DayEntry, error) {
	lister, ok := s.kv.(kv.Lister)
	if !ok {
		return nil, errors.New(errors.ErrCodeStorageUnsupported, "storage backend cannot list records")
	}
	keys, err := lister.Keys(ctx, IntakeKeyPrefix)
	if err != nil {
		return nil, err
	}
	records := make([]DayEntry, 0, len(keys))
	for _, key := range keys {
		day, ok := ParseIntakeKey(key, s.opts.Location)
		if !ok {
			continue
		}
		intake, err := s.intakeFor(ctx, key)
		if err != nil {
			return nil, err
		}
		records = append(records, DayEntry{Date: day.Format(DateLayout), Intake: intake})
	}
	return records, nil
}

func (s *Store) intakeFor(ctx context.Context, key string) (int, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("Malformed intake value, treating as 0")
		return 0, nil
	}
	return n, nil
}

func (s *Store) setScalar(ctx context.Context, key, value string) error {
	unlock := s.locks.lock(key)
	defer unlock()
	if err := s.kv.Set(ctx, key, value); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"key": key, "value": value}).Debug("Stored preference")
	return nil
}

// Fraction returns intake/goal clamped to [0, 1]. A non-positive goal
// yields 0.
func Fraction(intake, goal int) float64 {
	if goal <= 0 || intake <= 0 {
		return 0
	}
	return math.Min(float64(intake)/float64(goal), 1)
}

// Percent returns Fraction as a whole percentage.
func Percent(intake, goal int) int {
	return int(math.Round(Fraction(intake, goal) * 100))
}

// Remaining returns how many ounces are left to reach the goal, never
// negative.
func Remaining(intake, goal int) int {
	if intake >= goal {
		return 0
	}
	return goal - intake
}
