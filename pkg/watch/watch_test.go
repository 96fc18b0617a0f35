package watch

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/state"
	"github.com/grovetools/hydrate/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileStore(path string, clock intake.Clock) *intake.Store {
	return intake.New(state.NewFile(path), intake.Options{
		Location: time.UTC,
		Clock:    clock,
		Logger:   testutil.DiscardLogger(),
	})
}

func TestRefreshPublishesOnlyDifferences(t *testing.T) {
	testutil.Isolate(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.yml")
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 10))
	store := fileStore(path, clock)
	bus := events.NewBus(nil)

	w, err := New(ctx, store, bus, path, time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var goals []events.GoalChanged
	var intakes []events.IntakeChanged
	var emojis []string
	bus.OnGoalChanged(func(e events.GoalChanged) { goals = append(goals, e) })
	bus.OnIntakeChanged(func(e events.IntakeChanged) { intakes = append(intakes, e) })
	bus.OnEmojiChanged(func(e events.EmojiChanged) { emojis = append(emojis, e.Glyph) })

	require.NoError(t, w.Refresh(ctx))
	assert.Empty(t, goals)
	assert.Empty(t, intakes)

	other := fileStore(path, clock)
	require.NoError(t, other.SetGoal(ctx, 80))
	_, err = other.AddCup(ctx, 12)
	require.NoError(t, err)

	require.NoError(t, w.Refresh(ctx))
	assert.Equal(t, []events.GoalChanged{{Goal: 80, Units: units.Imperial}}, goals)
	assert.Equal(t, []events.IntakeChanged{{Date: "2024-03-05", Intake: 12}}, intakes)
	assert.Empty(t, emojis)

	require.NoError(t, w.Refresh(ctx))
	assert.Len(t, goals, 1, "unchanged values are not republished")
}

func TestLocalEditsUpdateBaseline(t *testing.T) {
	testutil.Isolate(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.yml")
	store := fileStore(path, testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 10)))
	bus := events.NewBus(nil)

	w, err := New(ctx, store, bus, path, time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, store.SetEmoji(ctx, "🥤"))
	bus.PublishEmojiChanged(events.EmojiChanged{Glyph: "🥤"})

	published := 0
	bus.OnEmojiChanged(func(events.EmojiChanged) { published++ })
	require.NoError(t, w.Refresh(ctx))
	assert.Zero(t, published)
}

func TestRolloverIsNotAnIntakeChange(t *testing.T) {
	testutil.Isolate(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.yml")
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 23))
	store := fileStore(path, clock)
	_, err := store.AddCup(ctx, 40)
	require.NoError(t, err)

	bus := events.NewBus(nil)
	w, err := New(ctx, store, bus, path, time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	published := false
	bus.OnIntakeChanged(func(events.IntakeChanged) { published = true })

	clock.Advance(2 * time.Hour)
	require.NoError(t, w.Refresh(ctx))
	assert.False(t, published)
}

func TestRunPicksUpExternalWrites(t *testing.T) {
	testutil.Isolate(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "state.yml")
	clock := testutil.NewFakeClock(testutil.Date(2024, time.March, 5, 10))
	store := fileStore(path, clock)
	bus := events.NewBus(nil)

	var mu sync.Mutex
	var goal int
	bus.OnGoalChanged(func(e events.GoalChanged) {
		mu.Lock()
		goal = e.Goal
		mu.Unlock()
	})

	w, err := New(ctx, store, bus, path, 20*time.Millisecond)
	require.NoError(t, err)
	go w.Run(ctx)

	require.NoError(t, fileStore(path, clock).SetGoal(context.Background(), 96))

	testutil.Eventually(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return goal == 96
	})
}

func TestMatches(t *testing.T) {
	w := &Watcher{path: "/data/hydrate.db"}
	assert.True(t, w.matches("/data/hydrate.db"))
	assert.True(t, w.matches("/data/hydrate.db-wal"))
	assert.False(t, w.matches("/data/other.db"))
}
