// Package units converts between the canonical storage unit (ounces) and the
// display unit systems. Conversion happens only at the presentation
// boundary; stored values are always whole ounces.
package units

import (
	"fmt"
	"math"
	"strings"
)

// MillilitersPerOunce is the US fluid ounce in milliliters.
const MillilitersPerOunce = 29.5735

// System is a unit-display preference.
type System string

const (
	Imperial System = "imperial"
	Metric   System = "metric"
)

// Parse converts a user or stored string to a System. The empty string
// parses as Imperial.
func Parse(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "imperial", "oz", "us":
		return Imperial, nil
	case "metric", "ml", "si":
		return Metric, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want imperial or metric)", s)
	}
}

// String implements fmt.Stringer and pflag.Value.
func (s System) String() string {
	if s == "" {
		return string(Imperial)
	}
	return string(s)
}

// Set implements pflag.Value.
func (s *System) Set(value string) error {
	parsed, err := Parse(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *System) Type() string {
	return "units"
}

// Label returns the short unit suffix for display.
func (s System) Label() string {
	if s == Metric {
		return "ml"
	}
	return "oz"
}

// OuncesToMilliliters converts whole ounces to the nearest milliliter.
func OuncesToMilliliters(oz int) int {
	return int(math.Round(float64(oz) * MillilitersPerOunce))
}

// MillilitersToOunces converts milliliters to the nearest whole ounce.
func MillilitersToOunces(ml int) int {
	return int(math.Round(float64(ml) / MillilitersPerOunce))
}

// ToOunces converts a value entered in the given system to stored ounces.
func ToOunces(value int, system System) int {
	if system == Metric {
		return MillilitersToOunces(value)
	}
	return value
}

// FromOunces converts stored ounces to the given display system.
func FromOunces(oz int, system System) int {
	if system == Metric {
		return OuncesToMilliliters(oz)
	}
	return oz
}

// Format renders stored ounces in the given system, e.g. "64 oz" or "1893 ml".
func Format(oz int, system System) string {
	return fmt.Sprintf("%d %s", FromOunces(oz, system), system.Label())
}
