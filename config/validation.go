package config

import (
	"fmt"
	"time"

	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/units"
)

// MaxRolloverInterval is the coarsest allowed rollover check.
const MaxRolloverInterval = time.Minute

var validBackends = map[string]bool{
	"file":   true,
	"sqlite": true,
	"redis":  true,
	"memory": true,
}

// Validate checks if the configuration is valid. It expects SetDefaults to
// have run.
func (c *Config) Validate() error {
	if err := validateDefaults(&c.Defaults); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid defaults configuration")
	}

	if err := validateStorage(&c.Storage); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid storage configuration").
			WithDetail("backend", c.Storage.Backend)
	}

	if err := validateRollover(&c.Rollover); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid rollover configuration")
	}

	if err := validateReminders(&c.Reminders); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid reminders configuration")
	}

	return nil
}

func validateDefaults(d *DefaultsConfig) error {
	if d.Goal <= 0 {
		return fmt.Errorf("goal must be positive, got %d", d.Goal)
	}
	if d.Cup <= 0 {
		return fmt.Errorf("cup must be positive, got %d", d.Cup)
	}
	if _, err := units.Parse(d.Units); err != nil {
		return err
	}
	if d.Timezone != "" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", d.Timezone, err)
		}
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	if !validBackends[s.Backend] {
		return fmt.Errorf("unknown backend %q (want file, sqlite, redis or memory)", s.Backend)
	}
	if s.Backend == "redis" && s.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	if s.Redis.DB < 0 {
		return fmt.Errorf("redis.db cannot be negative")
	}
	return nil
}

func validateRollover(r *RolloverConfig) error {
	d, err := time.ParseDuration(r.Interval)
	if err != nil {
		return fmt.Errorf("interval %q: %w", r.Interval, err)
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive, got %s", d)
	}
	if d > MaxRolloverInterval {
		return fmt.Errorf("interval %s is coarser than %s", d, MaxRolloverInterval)
	}
	return nil
}

func validateReminders(r *RemindersConfig) error {
	seen := make(map[int]bool, len(r.Hours))
	for _, h := range r.Hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("hour %d out of range 0-23", h)
		}
		if seen[h] {
			return fmt.Errorf("hour %d listed twice", h)
		}
		seen[h] = true
	}
	return nil
}
