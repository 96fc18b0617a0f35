package table

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/theme"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestBar(t *testing.T) {
	th := theme.NewThemeWithName("terminal")

	tests := []struct {
		fraction float64
		filled   int
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{1.5, 20},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := Bar(th, tt.fraction, BarWidth)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "fraction %v", tt.fraction)
		assert.Equal(t, BarWidth-tt.filled, strings.Count(bar, "░"), "fraction %v", tt.fraction)
	}
	assert.Empty(t, Bar(th, 0.5, 0))
}

func TestHistory(t *testing.T) {
	entries := []intake.DayEntry{
		{Date: "2024-03-04", Intake: 64},
		{Date: "2024-03-05", Intake: 32},
	}

	out := History(entries, HistoryOptions{Goal: 64, Units: units.Imperial, Emoji: "💧", Today: "2024-03-05"})
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "64 oz 💧")
	assert.Contains(t, out, "32 oz")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "50%")

	metric := History(entries[:1], HistoryOptions{Goal: 64, Units: units.Metric})
	assert.Contains(t, metric, "1893 ml")
}

func TestStatusTable(t *testing.T) {
	out := StatusTable([][]string{{"Goal", "64 oz"}, {"ignored"}})
	assert.Contains(t, out, "Goal:")
	assert.Contains(t, out, "64 oz")
	assert.NotContains(t, out, "ignored")
}
