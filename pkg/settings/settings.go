// Package settings applies user edits to the intake store. Every edit is
// validated here, written through the store, and announced on the event bus
// so that open views refresh.
package settings

import (
	"context"
	"strings"

	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
)

// Service validates and applies edits.
type Service struct {
	store *intake.Store
	bus   *events.Bus
}

// New creates a Service. A nil bus is replaced by a silent one.
func New(store *intake.Store, bus *events.Bus) *Service {
	if bus == nil {
		bus = events.NewBus(nil)
	}
	return &Service{store: store, bus: bus}
}

// Store returns the underlying intake store.
func (s *Service) Store() *intake.Store { return s.store }

// Bus returns the bus edits are published on.
func (s *Service) Bus() *events.Bus { return s.bus }

// UpdateGoal stores a new daily goal given in the provided unit system and
// returns it in ounces.
func (s *Service) UpdateGoal(ctx context.Context, value int, system units.System) (int, error) {
	system = normalize(system)
	oz := units.ToOunces(value, system)
	if err := check(goalInput{Goal: value, GoalOunces: oz, Units: system}); err != nil {
		return 0, err
	}
	if oz <= 0 {
		return 0, errors.InvalidInput("goal", "Goal must be at least one ounce.")
	}
	if err := s.store.SetGoal(ctx, oz); err != nil {
		return 0, err
	}
	current, err := s.store.Units(ctx)
	if err != nil {
		return 0, err
	}
	s.bus.PublishGoalChanged(events.GoalChanged{Goal: oz, Units: current})
	return oz, nil
}

// SetUnits stores the display preference. Listeners receive the current
// goal together with the new system.
func (s *Service) SetUnits(ctx context.Context, system units.System) error {
	system = normalize(system)
	if err := check(struct {
		Units units.System `validate:"units"`
	}{system}); err != nil {
		return err
	}
	if err := s.store.SetUnits(ctx, system); err != nil {
		return err
	}
	goal, err := s.store.Goal(ctx)
	if err != nil {
		return err
	}
	s.bus.PublishGoalChanged(events.GoalChanged{Goal: goal, Units: system})
	return nil
}

// SetEmoji stores the display glyph.
func (s *Service) SetEmoji(ctx context.Context, glyph string) error {
	glyph = strings.TrimSpace(glyph)
	if err := check(emojiInput{Emoji: glyph}); err != nil {
		return err
	}
	if err := s.store.SetEmoji(ctx, glyph); err != nil {
		return err
	}
	s.bus.PublishEmojiChanged(events.EmojiChanged{Glyph: glyph})
	return nil
}

// QuickAdd adds an amount given in the provided unit system to today and
// returns the new total in ounces.
func (s *Service) QuickAdd(ctx context.Context, value int, system units.System) (int, error) {
	system = normalize(system)
	oz := units.ToOunces(value, system)
	if err := check(amountInput{Amount: value, AmountOunces: oz, Units: system}); err != nil {
		return 0, err
	}
	if oz <= 0 {
		return 0, errors.InvalidInput("amount", "Amount must be at least one ounce.")
	}
	total, err := s.store.AddCupWithin(ctx, oz, MaxDailyIntake)
	if err != nil {
		return 0, err
	}
	s.publishIntake(total)
	return total, nil
}

// AddCup adds the configured default cup.
func (s *Service) AddCup(ctx context.Context) (int, error) {
	total, err := s.store.AddCupWithin(ctx, s.store.Options().DefaultCup, MaxDailyIntake)
	if err != nil {
		return 0, err
	}
	s.publishIntake(total)
	return total, nil
}

// SetIntake overwrites today's total.
func (s *Service) SetIntake(ctx context.Context, value int, system units.System) error {
	system = normalize(system)
	oz := units.ToOunces(value, system)
	if err := check(intakeInput{Intake: value, IntakeOunces: oz, Units: system}); err != nil {
		return err
	}
	if err := s.store.SetTodayIntake(ctx, oz); err != nil {
		return err
	}
	s.publishIntake(oz)
	return nil
}

// Reset zeroes today's total.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.ResetIntake(ctx); err != nil {
		return err
	}
	s.publishIntake(0)
	return nil
}

func (s *Service) publishIntake(total int) {
	s.bus.PublishIntakeChanged(events.IntakeChanged{Date: s.store.Today(), Intake: total})
}

func normalize(system units.System) units.System {
	if system == "" {
		return units.Imperial
	}
	return system
}
