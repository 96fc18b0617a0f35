package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntakeKey(t *testing.T) {
	assert.Equal(t, "water-intake-2024-03-05", IntakeKey(time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "water-intake-2024-01-01", IntakeKey(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", DaysAgo(now, 1).Format(DateLayout), "leap day")
	assert.Equal(t, "2024-02-24", DaysAgo(now, 6).Format(DateLayout))
	assert.Equal(t, "2023-12-31", DaysAgo(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 1).Format(DateLayout))
}

func TestDaysAgoAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts 2024-03-10 02:00 local; the day is 23 hours long.
	now := time.Date(2024, 3, 11, 0, 15, 0, 0, ny)
	assert.Equal(t, "2024-03-10", DaysAgo(now, 1).Format(DateLayout))
	assert.Equal(t, "2024-03-09", DaysAgo(now, 2).Format(DateLayout))
}

func TestParseIntakeKey(t *testing.T) {
	d, ok := ParseIntakeKey("water-intake-2024-03-05", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseIntakeKey("water-goal", time.UTC)
	assert.False(t, ok)
	_, ok = ParseIntakeKey("water-intake-yesterday", nil)
	assert.False(t, ok)
}

func TestKeyLocksReleaseEntries(t *testing.T) {
	var k keyLocks
	unlockA := k.lock("a")
	unlockB := k.lock("b")
	assert.Len(t, k.locks, 2)
	unlockA()
	unlockB()
	assert.Empty(t, k.locks)
}
