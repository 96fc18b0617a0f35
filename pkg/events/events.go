// Package events is the in-process change relay between hydrate's screens
// and commands. Each event has its own payload type and its own listener
// list.
package events

import (
	"fmt"
	"io"
	"sync"

	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
)

// GoalChanged is published after the daily goal or the unit preference is
// stored.
type GoalChanged struct {
	Goal  int          `json:"goal"`
	Units units.System `json:"units"`
}

// EmojiChanged is published after the display glyph is stored.
type EmojiChanged struct {
	Glyph string `json:"glyph"`
}

// IntakeChanged is published after today's record is written.
type IntakeChanged struct {
	Date   string `json:"date"`
	Intake int    `json:"intake"`
}

// DayRolledOver is published when the local calendar date advances.
type DayRolledOver struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. A panicking listener is logged and skipped; the
// remaining listeners still run.
type Bus struct {
	logger *logrus.Entry

	mu       sync.RWMutex
	nextID   int
	goal     []subscription[GoalChanged]
	emoji    []subscription[EmojiChanged]
	intake   []subscription[IntakeChanged]
	rollover []subscription[DayRolledOver]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewBus creates an empty bus. A nil logger discards listener failures.
func NewBus(logger *logrus.Entry) *Bus {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Bus{logger: logger}
}

// OnGoalChanged registers fn and returns a function that removes it.
func (b *Bus) OnGoalChanged(fn func(GoalChanged)) (unsubscribe func()) {
	return subscribe(b, &b.goal, fn)
}

// OnEmojiChanged registers fn and returns a function that removes it.
func (b *Bus) OnEmojiChanged(fn func(EmojiChanged)) (unsubscribe func()) {
	return subscribe(b, &b.emoji, fn)
}

// OnIntakeChanged registers fn and returns a function that removes it.
func (b *Bus) OnIntakeChanged(fn func(IntakeChanged)) (unsubscribe func()) {
	return subscribe(b, &b.intake, fn)
}

// OnRollover registers fn and returns a function that removes it.
func (b *Bus) OnRollover(fn func(DayRolledOver)) (unsubscribe func()) {
	return subscribe(b, &b.rollover, fn)
}

// PublishGoalChanged delivers e to every goal listener.
func (b *Bus) PublishGoalChanged(e GoalChanged) {
	publish(b, "goal-changed", &b.goal, e)
}

// PublishEmojiChanged delivers e to every emoji listener.
func (b *Bus) PublishEmojiChanged(e EmojiChanged) {
	publish(b, "emoji-changed", &b.emoji, e)
}

// PublishIntakeChanged delivers e to every intake listener.
func (b *Bus) PublishIntakeChanged(e IntakeChanged) {
	publish(b, "intake-changed", &b.intake, e)
}

// PublishRollover delivers e to every rollover listener.
func (b *Bus) PublishRollover(e DayRolledOver) {
	publish(b, "day-rolled-over", &b.rollover, e)
}

func subscribe[T any](b *Bus, list *[]subscription[T], fn func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	*list = append(*list, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := *list
			for i, s := range subs {
				if s.id == id {
					*list = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

func publish[T any](b *Bus, name string, list *[]subscription[T], e T) {
	b.mu.RLock()
	subs := append([]subscription[T](nil), *list...)
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(b, name, s.fn, e)
	}
}

func deliver[T any](b *Bus, name string, fn func(T), e T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"event": name,
				"panic": fmt.Sprint(r),
			}).Error("Event listener failed")
		}
	}()
	fn(e)
}
