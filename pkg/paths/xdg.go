// Package paths provides XDG-compliant path resolution for hydrate.
//
// Resolution order:
// 1. HYDRATE_HOME (portable root) → $HYDRATE_HOME/{config,data,state}
// 2. XDG env vars → $XDG_*_HOME/hydrate
// 3. Platform defaults → ~/.config/hydrate, ~/.local/state/hydrate, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "hydrate"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("HYDRATE_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getDataHome returns the base data home directory.
func getDataHome() string {
	if home := os.Getenv("HYDRATE_HOME"); home != "" {
		return filepath.Join(home, "data")
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return xdgDataHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("HYDRATE_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the hydrate configuration directory.
// Used for hydrate.yml / hydrate.toml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// DataDir returns the hydrate data directory.
// Used for the sqlite database.
func DataDir() string {
	base := getDataHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the hydrate state directory.
// Used for the file-backed store and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// LogDir returns the directory for log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// StateFilePath returns the default path of the file-backed store.
func StateFilePath() string {
	return filepath.Join(StateDir(), "state.yml")
}

// DatabasePath returns the default path of the sqlite store.
func DatabasePath() string {
	return filepath.Join(DataDir(), "hydrate.db")
}

// ReminderPIDPath returns the PID file held by a running `hydrate remind`.
func ReminderPIDPath() string {
	return filepath.Join(StateDir(), "remind.pid")
}

// EnsureDirs creates all hydrate directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
