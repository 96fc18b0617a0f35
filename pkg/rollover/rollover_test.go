package rollover_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/rollover"
	"github.com/grovetools/hydrate/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPublishesOnDateChange(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2024, time.March, 5, 23, 58, 0, 0, time.UTC))
	bus := events.NewBus(nil)
	w := rollover.New(bus, rollover.Options{Clock: clock, Location: time.UTC, Logger: testutil.DiscardLogger()})

	var got []events.DayRolledOver
	bus.OnRollover(func(e events.DayRolledOver) { got = append(got, e) })

	assert.False(t, w.Check())
	clock.Advance(time.Minute)
	assert.False(t, w.Check(), "still the same day")

	clock.Advance(2 * time.Minute)
	assert.True(t, w.Check())
	assert.False(t, w.Check(), "only the first check after midnight fires")

	require.Len(t, got, 1)
	assert.Equal(t, events.DayRolledOver{Previous: "2024-03-05", Current: "2024-03-06"}, got[0])
	assert.Equal(t, "2024-03-06", w.Current())
}

func TestCheckUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 14:30 UTC is 23:30 in Tokyo.
	clock := testutil.NewFakeClock(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC))
	w := rollover.New(events.NewBus(nil), rollover.Options{Clock: clock, Location: tokyo, Logger: testutil.DiscardLogger()})
	assert.Equal(t, "2024-03-05", w.Current())

	clock.Advance(time.Hour)
	assert.True(t, w.Check())
	assert.Equal(t, "2024-03-06", w.Current())
}

func TestIntervalBounds(t *testing.T) {
	bus := events.NewBus(nil)
	log := testutil.DiscardLogger()

	assert.Equal(t, rollover.DefaultInterval, rollover.New(bus, rollover.Options{Logger: log}).Interval())
	assert.Equal(t, rollover.DefaultInterval, rollover.New(bus, rollover.Options{Interval: time.Hour, Logger: log}).Interval())
	assert.Equal(t, 10*time.Second, rollover.New(bus, rollover.Options{Interval: 10 * time.Second, Logger: log}).Interval())
}

// Crossing midnight leaves yesterday's record intact and starts today at 0.
func TestRolloverScenario(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Date(2024, time.March, 5, 22, 0, 0, 0, time.UTC))
	store, _ := testutil.NewStore(t, clock)
	bus := events.NewBus(nil)
	w := rollover.ForStore(store, bus, time.Second)

	_, err := store.AddCup(ctx, 40)
	require.NoError(t, err)

	displayed := 40
	bus.OnRollover(func(events.DayRolledOver) {
		displayed, err = store.TodayIntake(ctx)
	})

	clock.Advance(3 * time.Hour)
	require.True(t, w.Check())
	require.NoError(t, err)
	assert.Equal(t, 0, displayed)

	history, err := store.IntakeHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, intake.HistoryDays)
	assert.Equal(t, intake.DayEntry{Date: "2024-03-05", Intake: 40}, history[len(history)-2])
	assert.Equal(t, intake.DayEntry{Date: "2024-03-06", Intake: 0}, history[len(history)-1])
}

func TestRunStopsOnCancel(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC))
	bus := events.NewBus(nil)
	w := rollover.New(bus, rollover.Options{
		Clock:    clock,
		Location: time.UTC,
		Interval: 5 * time.Millisecond,
		Logger:   testutil.DiscardLogger(),
	})

	var mu sync.Mutex
	fired := 0
	bus.OnRollover(func(events.DayRolledOver) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	clock.Advance(2 * time.Minute)
	testutil.Eventually(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
