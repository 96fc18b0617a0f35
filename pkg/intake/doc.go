// Package intake is the persistence core of hydrate: today's intake, the
// daily goal and the display preferences, stored as decimal strings in a
// kv.Store under date-derived keys.
//
// Layout of the stored records:
//
//	water-intake-YYYY-MM-DD   decimal ounces for one local calendar date
//	water-goal                decimal ounces
//	water-metric              "imperial" | "metric"
//	water-emoji               UTF-8 glyph
//
// The current date is taken from the Clock on every call, so a long-running
// process moves to a new record at midnight without restarting. The Store
// does not validate amounts; see package settings.
package intake
