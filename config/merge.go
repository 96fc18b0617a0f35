package config

// mergeConfigs merges override configuration into base. Zero values in the
// override never replace a value from the base.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.Defaults = mergeDefaults(result.Defaults, override.Defaults)
	result.Storage = mergeStorage(result.Storage, override.Storage)

	if override.Rollover.Interval != "" {
		result.Rollover.Interval = override.Rollover.Interval
	}

	result.Reminders = mergeReminders(result.Reminders, override.Reminders)

	// Merge extensions
	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for key, value := range result.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseValue, exists := merged[key]; exists {
				if baseMap, baseOk := baseValue.(map[string]interface{}); baseOk {
					if overrideMap, overrideOk := value.(map[string]interface{}); overrideOk {
						mergedMap := make(map[string]interface{})
						for k, v := range baseMap {
							mergedMap[k] = v
						}
						for k, v := range overrideMap {
							mergedMap[k] = v
						}
						merged[key] = mergedMap
						continue
					}
				}
			}
			// Otherwise just replace
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

func mergeDefaults(base, override DefaultsConfig) DefaultsConfig {
	result := base

	if override.Goal != 0 {
		result.Goal = override.Goal
	}
	if override.Cup != 0 {
		result.Cup = override.Cup
	}
	if override.Emoji != "" {
		result.Emoji = override.Emoji
	}
	if override.Units != "" {
		result.Units = override.Units
	}
	if override.Timezone != "" {
		result.Timezone = override.Timezone
	}

	return result
}

func mergeStorage(base, override StorageConfig) StorageConfig {
	result := base

	if override.Backend != "" {
		result.Backend = override.Backend
	}
	if override.Path != "" {
		result.Path = override.Path
	}
	if override.Redis.Addr != "" {
		result.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.Password != "" {
		result.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		result.Redis.DB = override.Redis.DB
	}
	if override.Redis.Prefix != "" {
		result.Redis.Prefix = override.Redis.Prefix
	}

	return result
}

func mergeReminders(base, override RemindersConfig) RemindersConfig {
	result := base

	if override.Enabled {
		result.Enabled = override.Enabled
	}
	if len(override.Hours) > 0 {
		result.Hours = append([]int(nil), override.Hours...)
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	if override.Body != "" {
		result.Body = override.Body
	}
	if override.Desktop {
		result.Desktop = override.Desktop
	}

	return result
}
