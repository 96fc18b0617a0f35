// Package starship shows today's intake in the Starship shell prompt.
package starship

import (
	"context"
	"fmt"

	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
)

// Status is what a provider may show in the prompt.
type Status struct {
	Intake int
	Goal   int
	Units  units.System
	Emoji  string
}

// StatusProvider renders one prompt segment. An empty string hides the
// segment.
type StatusProvider func(ctx context.Context, s Status) (string, error)

var providers = []StatusProvider{IntakeProvider}

// RegisterProvider adds a segment after the registered ones.
func RegisterProvider(p StatusProvider) {
	providers = append(providers, p)
}

// GetProviders returns the registered providers.
func GetProviders() []StatusProvider {
	return providers
}

// ClearProviders removes every provider, including the default one.
func ClearProviders() {
	providers = nil
}

// IntakeProvider renders "💧 24/64 oz", with a check mark once the goal is
// met.
func IntakeProvider(_ context.Context, s Status) (string, error) {
	if s.Goal <= 0 {
		return "", nil
	}
	out := fmt.Sprintf("%s %d/%s", s.Emoji, units.FromOunces(s.Intake, s.Units), units.Format(s.Goal, s.Units))
	if intake.Remaining(s.Intake, s.Goal) == 0 {
		out += " ✓"
	}
	return out, nil
}
