package events

import (
	"sync"
	"testing"

	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string

	bus.OnGoalChanged(func(e GoalChanged) { got = append(got, "first") })
	bus.OnGoalChanged(func(e GoalChanged) {
		assert.Equal(t, GoalChanged{Goal: 80, Units: units.Metric}, e)
		got = append(got, "second")
	})
	bus.OnEmojiChanged(func(EmojiChanged) { got = append(got, "emoji") })

	bus.PublishGoalChanged(GoalChanged{Goal: 80, Units: units.Metric})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	var a, b int

	unsubA := bus.OnIntakeChanged(func(IntakeChanged) { a++ })
	bus.OnIntakeChanged(func(IntakeChanged) { b++ })

	bus.PublishIntakeChanged(IntakeChanged{Date: "2024-03-05", Intake: 8})
	unsubA()
	unsubA() // second call is a no-op
	bus.PublishIntakeChanged(IntakeChanged{Date: "2024-03-05", Intake: 16})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	var unsub func()
	unsub = bus.OnRollover(func(DayRolledOver) {
		calls++
		unsub()
	})

	bus.PublishRollover(DayRolledOver{Previous: "2024-03-05", Current: "2024-03-06"})
	bus.PublishRollover(DayRolledOver{Previous: "2024-03-06", Current: "2024-03-07"})
	assert.Equal(t, 1, calls)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bus := NewBus(logrus.NewEntry(logger))

	delivered := false
	bus.OnEmojiChanged(func(EmojiChanged) { panic("boom") })
	bus.OnEmojiChanged(func(e EmojiChanged) { delivered = e.Glyph == "🥤" })

	require.NotPanics(t, func() { bus.PublishEmojiChanged(EmojiChanged{Glyph: "🥤"}) })
	assert.True(t, delivered)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "emoji-changed", hook.LastEntry().Data["event"])
	assert.Equal(t, "boom", hook.LastEntry().Data["panic"])
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus(nil)
	var mu sync.Mutex
	total := 0
	t.Cleanup(func() { t.Logf("delivered %d goal events", total) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := bus.OnGoalChanged(func(GoalChanged) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			defer unsub()
		}()
		go func() {
			defer wg.Done()
			bus.PublishGoalChanged(GoalChanged{Goal: 64})
		}()
	}
	wg.Wait()

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	assert.Empty(t, bus.goal, "every listener unsubscribed")
}
