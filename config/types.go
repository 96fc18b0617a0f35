package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Documented defaults. The intake store receives them through Config at
// construction time.
const (
	DefaultGoal             = 64
	DefaultCup              = 8
	DefaultEmoji            = "💧"
	DefaultUnits            = "imperial"
	DefaultBackend          = "file"
	DefaultRolloverInterval = time.Minute
	DefaultReminderTitle    = "Time to drink water!"
	DefaultReminderBody     = "Stay hydrated. Log your ounces in hydrate."
)

// DefaultReminderHours are the local hours at which reminders fire: every
// two hours from 8am to 8pm.
var DefaultReminderHours = []int{8, 10, 12, 14, 16, 18, 20}

// DefaultsConfig holds the fallback values reported when nothing is stored yet.
type DefaultsConfig struct {
	Goal     int    `yaml:"goal,omitempty" toml:"goal,omitempty" env:"GOAL" jsonschema:"description=Daily goal in ounces used until one is set (default: 64),minimum=1"`
	Cup      int    `yaml:"cup,omitempty" toml:"cup,omitempty" env:"CUP" jsonschema:"description=Ounces added by a single cup (default: 8),minimum=1"`
	Emoji    string `yaml:"emoji,omitempty" toml:"emoji,omitempty" env:"EMOJI" jsonschema:"description=Glyph shown next to the intake (default: 💧)"`
	Units    string `yaml:"units,omitempty" toml:"units,omitempty" env:"UNITS" jsonschema:"description=Display unit system until one is set,enum=imperial,enum=metric"`
	Timezone string `yaml:"timezone,omitempty" toml:"timezone,omitempty" env:"TIMEZONE" jsonschema:"description=IANA timezone used to derive the calendar date (default: local)"`
}

// RedisConfig configures the redis storage backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" toml:"addr,omitempty" env:"ADDR" jsonschema:"description=host:port of the redis server"`
	Password string `yaml:"password,omitempty" toml:"password,omitempty" env:"PASSWORD" jsonschema:"description=Redis password"`
	DB       int    `yaml:"db,omitempty" toml:"db,omitempty" env:"DB" jsonschema:"description=Redis database number,minimum=0"`
	Prefix   string `yaml:"prefix,omitempty" toml:"prefix,omitempty" env:"PREFIX" jsonschema:"description=Prefix prepended to every key"`
}

// StorageConfig selects and configures the key-value medium.
type StorageConfig struct {
	Backend string      `yaml:"backend,omitempty" toml:"backend,omitempty" env:"STORAGE" jsonschema:"description=Storage backend,enum=file,enum=sqlite,enum=redis,enum=memory"`
	Path    string      `yaml:"path,omitempty" toml:"path,omitempty" env:"STORAGE_PATH" jsonschema:"description=File or database path for the file and sqlite backends"`
	Redis   RedisConfig `yaml:"redis,omitempty" toml:"redis,omitempty" envPrefix:"REDIS_" jsonschema:"description=Redis backend settings"`
}

// RolloverConfig controls daily rollover detection.
type RolloverConfig struct {
	Interval string `yaml:"interval,omitempty" toml:"interval,omitempty" env:"ROLLOVER_INTERVAL" jsonschema:"description=How often to check for a date change (default and maximum: 1m)"`
}

// RemindersConfig controls the reminder scheduler.
type RemindersConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" toml:"enabled,omitempty" env:"REMINDERS" jsonschema:"description=Schedule reminders when the dashboard starts"`
	Hours   []int  `yaml:"hours,omitempty" toml:"hours,omitempty" env:"REMINDER_HOURS" jsonschema:"description=Local hours (0-23) at which a reminder fires"`
	Title   string `yaml:"title,omitempty" toml:"title,omitempty" env:"REMINDER_TITLE" jsonschema:"description=Reminder title"`
	Body    string `yaml:"body,omitempty" toml:"body,omitempty" env:"REMINDER_BODY" jsonschema:"description=Reminder body"`
	Desktop bool   `yaml:"desktop,omitempty" toml:"desktop,omitempty" env:"REMINDER_DESKTOP" jsonschema:"description=Also show reminders as desktop notifications (notify-send or osascript)"`
}

// Config is the root hydrate configuration.
type Config struct {
	Version   string          `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Defaults  DefaultsConfig  `yaml:"defaults,omitempty" toml:"defaults,omitempty" jsonschema:"description=Fallback values used when nothing is stored"`
	Storage   StorageConfig   `yaml:"storage,omitempty" toml:"storage,omitempty" jsonschema:"description=Key-value storage settings"`
	Rollover  RolloverConfig  `yaml:"rollover,omitempty" toml:"rollover,omitempty" jsonschema:"description=Daily rollover detection"`
	Reminders RemindersConfig `yaml:"reminders,omitempty" toml:"reminders,omitempty" jsonschema:"description=Drink reminder schedule"`

	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// knownSections lists top-level keys owned by Config itself. Everything
// else in a document is kept as an extension.
var knownSections = map[string]bool{
	"version":   true,
	"defaults":  true,
	"storage":   true,
	"rollover":  true,
	"reminders": true,
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Defaults.Goal == 0 {
		c.Defaults.Goal = DefaultGoal
	}
	if c.Defaults.Cup == 0 {
		c.Defaults.Cup = DefaultCup
	}
	if c.Defaults.Emoji == "" {
		c.Defaults.Emoji = DefaultEmoji
	}
	if c.Defaults.Units == "" {
		c.Defaults.Units = DefaultUnits
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Rollover.Interval == "" {
		c.Rollover.Interval = DefaultRolloverInterval.String()
	}
	if len(c.Reminders.Hours) == 0 {
		c.Reminders.Hours = append([]int(nil), DefaultReminderHours...)
	}
	if c.Reminders.Title == "" {
		c.Reminders.Title = DefaultReminderTitle
	}
	if c.Reminders.Body == "" {
		c.Reminders.Body = DefaultReminderBody
	}
}

// RolloverInterval returns the parsed rollover check interval, falling back
// to the default when the value is unset or unparsable. Validate reports
// unparsable values.
func (c *Config) RolloverInterval() time.Duration {
	d, err := time.ParseDuration(c.Rollover.Interval)
	if err != nil || d <= 0 {
		return DefaultRolloverInterval
	}
	return d
}

// Location returns the timezone used for calendar dates.
func (c *Config) Location() *time.Location {
	if c.Defaults.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Defaults.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded hydrate.yml into the provided target struct. The target must be a
// pointer.
//
// Example:
//
//	var tuiCfg struct{ Theme string `yaml:"theme"` }
//	err := cfg.UnmarshalExtension("tui", &tuiCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
