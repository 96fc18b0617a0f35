package intake_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = testutil.Date(2024, time.March, 5, 9)

func TestDefaultsOnAbsence(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, today)

	goal, err := store.Goal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64, goal)

	system, err := store.Units(ctx)
	require.NoError(t, err)
	assert.Equal(t, units.Imperial, system)

	emoji, err := store.Emoji(ctx)
	require.NoError(t, err)
	assert.Equal(t, "💧", emoji)
}

func TestInjectedDefaults(t *testing.T) {
	ctx := context.Background()
	store := intake.New(kv.NewMemory(), intake.Options{
		DefaultGoal:  100,
		DefaultCup:   12,
		DefaultEmoji: "🥤",
		Clock:        testutil.NewFakeClock(day),
		Logger:       testutil.DiscardLogger(),
	})

	goal, _ := store.Goal(ctx)
	emoji, _ := store.Emoji(ctx)
	assert.Equal(t, 100, goal)
	assert.Equal(t, "🥤", emoji)

	total, err := store.AddDefaultCup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

func TestAddIsAdditive(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	amounts := []int{8, 16, 4, 12, 1}
	sum := 0
	for _, a := range amounts {
		sum += a
		total, err := store.AddCup(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, sum, total)
	}

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, sum, today)

	_, err = store.AddDefaultCup(ctx)
	require.NoError(t, err)
	today, _ = store.TodayIntake(ctx)
	assert.Equal(t, sum+8, today)
}

func TestConcurrentAddCupLosesNothing(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	const workers, perWorker = 16, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := store.AddCup(ctx, 2)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker*2, today)
}

func TestResetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	_, err := store.AddCup(ctx, 24)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.ResetIntake(ctx))
		today, err := store.TodayIntake(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, today)
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	for _, x := range []int{40, 0, 7, 128, -3} {
		_, err := store.AddCup(ctx, 5)
		require.NoError(t, err)
		require.NoError(t, store.SetTodayIntake(ctx, x))
		today, err := store.TodayIntake(ctx)
		require.NoError(t, err)
		assert.Equal(t, x, today, "the store does not clamp")
	}
}

func TestHistoryShape(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 2, 23))
	store, _ := testutil.NewStore(t, clock)

	history, err := store.IntakeHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 7)

	assert.Equal(t, "2024-02-25", history[0].Date)
	assert.Equal(t, "2024-03-02", history[6].Date, "last entry is today")
	for i := 1; i < len(history); i++ {
		prev, err := time.Parse(intake.DateLayout, history[i-1].Date)
		require.NoError(t, err)
		cur, err := time.Parse(intake.DateLayout, history[i].Date)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev), "entries one day apart")
		assert.Equal(t, 0, history[i].Intake)
	}
}

func TestHistoryBounds(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	for _, days := range []int{0, -1, intake.MaxHistoryDays + 1, math.MaxInt} {
		_, err := store.History(ctx, days)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "days=%d", days)
	}

	history, err := store.History(ctx, intake.MaxHistoryDays)
	require.NoError(t, err)
	require.Len(t, history, intake.MaxHistoryDays)
	assert.Equal(t, "2024-03-05", history[len(history)-1].Date)
}

func TestAddCupWithin(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	total, err := store.AddCupWithin(ctx, 60, 64)
	require.NoError(t, err)
	assert.Equal(t, 60, total)

	total, err = store.AddCupWithin(ctx, 4, 64)
	require.NoError(t, err)
	assert.Equal(t, 64, total, "reaching the limit is allowed")

	total, err = store.AddCupWithin(ctx, 1, 64)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Equal(t, 64, total)

	require.NoError(t, store.SetTodayIntake(ctx, math.MaxInt))
	_, err = store.AddCupWithin(ctx, 1, math.MaxInt)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "no wrap-around at the top of int")
	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, today)
}

func TestHistoryReadsEachDay(t *testing.T) {
	ctx := context.Background()
	store, mem := testutil.NewStore(t, testutil.NewFakeClock(day))

	require.NoError(t, mem.Set(ctx, "water-intake-2024-03-05", "32"))
	require.NoError(t, mem.Set(ctx, "water-intake-2024-03-03", "48"))
	require.NoError(t, mem.Set(ctx, "water-intake-2024-02-27", "64"))
	require.NoError(t, mem.Set(ctx, "water-intake-2024-02-20", "99")) // outside the window

	history, err := store.IntakeHistory(ctx)
	require.NoError(t, err)

	got := make(map[string]int)
	for _, e := range history {
		got[e.Date] = e.Intake
	}
	assert.Equal(t, map[string]int{
		"2024-02-28": 0,
		"2024-02-29": 0,
		"2024-03-01": 0,
		"2024-03-02": 0,
		"2024-03-03": 48,
		"2024-03-04": 0,
		"2024-03-05": 32,
	}, got)

	long, err := store.History(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, intake.DayEntry{Date: "2024-02-27", Intake: 64}, long[0])

	_, err = store.History(ctx, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestGoalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	for _, g := range []int{1, 8, 64, 100, 4096} {
		require.NoError(t, store.SetGoal(ctx, g))
		goal, err := store.Goal(ctx)
		require.NoError(t, err)
		assert.Equal(t, g, goal)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mem := testutil.NewStore(t, testutil.NewFakeClock(day))

	require.NoError(t, store.SetUnits(ctx, units.Metric))
	system, err := store.Units(ctx)
	require.NoError(t, err)
	assert.Equal(t, units.Metric, system)

	raw, _, _ := mem.Get(ctx, intake.UnitsKey)
	assert.Equal(t, "metric", raw)

	require.NoError(t, store.SetEmoji(ctx, "🚰"))
	emoji, err := store.Emoji(ctx)
	require.NoError(t, err)
	assert.Equal(t, "🚰", emoji)
}

func TestMalformedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	logger, logs := testutil.CaptureLogger()
	store := intake.New(mem, intake.Options{
		Location: time.UTC,
		Clock:    testutil.NewFakeClock(day),
		Logger:   logger,
	})

	require.NoError(t, mem.Set(ctx, "water-intake-2024-03-05", "lots"))
	require.NoError(t, mem.Set(ctx, intake.GoalKey, "sixty"))
	require.NoError(t, mem.Set(ctx, intake.UnitsKey, "cubits"))
	require.NoError(t, mem.Set(ctx, intake.EmojiKey, ""))

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, today)

	goal, err := store.Goal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64, goal)

	system, err := store.Units(ctx)
	require.NoError(t, err)
	assert.Equal(t, units.Imperial, system)

	emoji, err := store.Emoji(ctx)
	require.NoError(t, err)
	assert.Equal(t, "💧", emoji)

	assert.Contains(t, logs.String(), "Malformed intake value")
	assert.Contains(t, logs.String(), "Malformed goal")

	// A non-positive stored goal is also replaced by the default.
	require.NoError(t, mem.Set(ctx, intake.GoalKey, "0"))
	goal, _ = store.Goal(ctx)
	assert.Equal(t, 64, goal)

	// Adding on top of a malformed record starts from 0.
	total, err := store.AddCup(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, total)
}

func TestWhitespaceTolerated(t *testing.T) {
	ctx := context.Background()
	store, mem := testutil.NewStore(t, testutil.NewFakeClock(day))
	require.NoError(t, mem.Set(ctx, "water-intake-2024-03-05", " 24\n"))

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, today)
}

func TestRolloverScenario(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 22))
	store, _ := testutil.NewStore(t, clock)

	require.NoError(t, store.SetTodayIntake(ctx, 40))
	assert.Equal(t, "water-intake-2024-03-05", store.TodayKey())

	clock.Advance(3 * time.Hour) // 01:00 on March 6th
	assert.Equal(t, "water-intake-2024-03-06", store.TodayKey(), "key is recomputed, not cached")

	today, err := store.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, today)

	history, err := store.IntakeHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, intake.DayEntry{Date: "2024-03-05", Intake: 40}, history[5])
	assert.Equal(t, intake.DayEntry{Date: "2024-03-06", Intake: 0}, history[6])

	// Adding after rollover never touches yesterday.
	_, err = store.AddCup(ctx, 8)
	require.NoError(t, err)
	history, _ = store.IntakeHistory(ctx)
	assert.Equal(t, 40, history[5].Intake)
	assert.Equal(t, 8, history[6].Intake)
}

func TestLocationDecidesTheDate(t *testing.T) {
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on March 5th is already March 6th in Tokyo.
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 20))
	store := intake.New(kv.NewMemory(), intake.Options{
		Location: tokyo,
		Clock:    clock,
		Logger:   testutil.DiscardLogger(),
	})

	assert.Equal(t, "2024-03-06", store.Today())
	_, err := store.AddCup(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "water-intake-2024-03-06", store.TodayKey())
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := testutil.NewStore(t, testutil.NewFakeClock(day))

	_, err := store.AddCup(ctx, 16)
	require.NoError(t, err)
	require.NoError(t, store.SetGoal(ctx, 80))
	require.NoError(t, store.SetUnits(ctx, units.Metric))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", snap.Date)
	assert.Equal(t, 16, snap.Today)
	assert.Equal(t, 80, snap.Goal)
	assert.Equal(t, units.Metric, snap.Units)
	assert.Equal(t, "💧", snap.Emoji)
	require.Len(t, snap.History, 7)
	assert.Equal(t, 16, snap.History[6].Intake)
}

func TestSnapshotReadsTheClockOnce(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC))
	store, mem := testutil.NewStore(t, clock)
	_, err := store.AddCup(ctx, 24)
	require.NoError(t, err)

	// Every later clock read lands after midnight.
	ticking := intake.ClockFunc(func() time.Time {
		now := clock.Now()
		clock.Set(testutil.Date(2024, time.March, 6, 0))
		return now
	})
	snapStore := intake.New(mem, intake.Options{Clock: ticking, Location: time.UTC, Logger: testutil.DiscardLogger()})

	snap, err := snapStore.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", snap.Date)
	assert.Equal(t, 24, snap.Today)
	assert.Equal(t, snap.Date, snap.History[6].Date)
	assert.Equal(t, 24, snap.History[6].Intake)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	failing := &testutil.FailingStore{}
	store := intake.New(failing, intake.Options{
		Clock:  testutil.NewFakeClock(day),
		Logger: testutil.DiscardLogger(),
	})

	failing.Fail(true, false)
	_, err := store.TodayIntake(ctx)
	assert.ErrorIs(t, err, testutil.ErrStorage)
	_, err = store.AddCup(ctx, 8)
	assert.ErrorIs(t, err, testutil.ErrStorage)
	_, err = store.Snapshot(ctx)
	assert.ErrorIs(t, err, testutil.ErrStorage)
	_, err = store.Goal(ctx)
	assert.ErrorIs(t, err, testutil.ErrStorage)

	failing.Fail(false, true)
	assert.ErrorIs(t, store.SetGoal(ctx, 64), testutil.ErrStorage)
	assert.ErrorIs(t, store.ResetIntake(ctx), testutil.ErrStorage)
}

func TestRecords(t *testing.T) {
	ctx := context.Background()
	store, mem := testutil.NewStore(t, testutil.NewFakeClock(day))

	require.NoError(t, mem.Set(ctx, "water-intake-2023-12-31", "70"))
	require.NoError(t, mem.Set(ctx, "water-intake-2024-03-05", "8"))
	require.NoError(t, mem.Set(ctx, "water-intake-garbage", "8"))
	require.NoError(t, mem.Set(ctx, intake.GoalKey, "64"))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []intake.DayEntry{
		{Date: "2023-12-31", Intake: 70},
		{Date: "2024-03-05", Intake: 8},
	}, records)
}

type getSetOnly struct{ kv.Store }

func TestRecordsNeedsLister(t *testing.T) {
	store := intake.New(getSetOnly{kv.NewMemory()}, intake.Options{Logger: testutil.DiscardLogger()})
	_, err := store.Records(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeStorageUnsupported))
}

func TestProgressHelpers(t *testing.T) {
	tests := []struct {
		intake, goal int
		fraction     float64
		percent      int
		remaining    int
	}{
		{0, 64, 0, 0, 64},
		{16, 64, 0.25, 25, 48},
		{64, 64, 1, 100, 0},
		{100, 64, 1, 100, 0},
		{10, 0, 0, 0, 0},
		{10, -5, 0, 0, 0},
		{-8, 64, 0, 0, 72},
		{21, 64, 21.0 / 64, 33, 43},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.fraction, intake.Fraction(tt.intake, tt.goal), 1e-9, "%d/%d", tt.intake, tt.goal)
		assert.Equal(t, tt.percent, intake.Percent(tt.intake, tt.goal), "%d/%d", tt.intake, tt.goal)
		assert.Equal(t, tt.remaining, intake.Remaining(tt.intake, tt.goal), "%d/%d", tt.intake, tt.goal)
	}
}
