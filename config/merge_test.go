package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConfigs(t *testing.T) {
	base := &Config{
		Defaults: DefaultsConfig{Goal: 64, Emoji: "💧"},
		Storage:  StorageConfig{Backend: "file", Path: "/var/hydrate/state.yml"},
		Extensions: map[string]interface{}{
			"tui": map[string]interface{}{"theme": "kanagawa", "compact": true},
		},
	}
	override := &Config{
		Defaults: DefaultsConfig{Goal: 96},
		Storage:  StorageConfig{Backend: "redis", Redis: RedisConfig{Addr: "cache:6379"}},
		Extensions: map[string]interface{}{
			"tui":     map[string]interface{}{"theme": "gruvbox"},
			"logging": map[string]interface{}{"level": "debug"},
		},
	}

	merged := mergeConfigs(base, override)

	assert.Equal(t, 96, merged.Defaults.Goal)
	assert.Equal(t, "💧", merged.Defaults.Emoji, "zero override keeps base")
	assert.Equal(t, "redis", merged.Storage.Backend)
	assert.Equal(t, "/var/hydrate/state.yml", merged.Storage.Path)
	assert.Equal(t, "cache:6379", merged.Storage.Redis.Addr)

	tui := merged.Extensions["tui"].(map[string]interface{})
	assert.Equal(t, "gruvbox", tui["theme"])
	assert.Equal(t, true, tui["compact"])
	assert.Contains(t, merged.Extensions, "logging")

	// base is not mutated
	assert.Equal(t, 64, base.Defaults.Goal)
}

func TestMergeReminders(t *testing.T) {
	base := RemindersConfig{Enabled: true, Hours: []int{8, 12}, Title: "drink"}
	merged := mergeReminders(base, RemindersConfig{Hours: []int{9}, Desktop: true})

	assert.True(t, merged.Enabled)
	assert.Equal(t, []int{9}, merged.Hours)
	assert.Equal(t, "drink", merged.Title)
	assert.True(t, merged.Desktop)
}

func TestHierarchicalMerging(t *testing.T) {
	home := isolate(t)

	globalDir := filepath.Join(home, "config", "hydrate")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "hydrate.yml"), []byte(`
version: "1.0"
defaults:
  goal: 70
  cup: 10
  emoji: "🌊"
tui:
  theme: kanagawa
`), 0644))

	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "hydrate.yml"), []byte(`
defaults:
  goal: 90
storage:
  backend: memory
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "hydrate.override.yml"), []byte(`
defaults:
  cup: 12
`), 0644))

	cfg, err := LoadFrom(projectDir)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Defaults.Goal, "project overrides global")
	assert.Equal(t, 12, cfg.Defaults.Cup, "override file overrides project")
	assert.Equal(t, "🌊", cfg.Defaults.Emoji, "global value survives")
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "imperial", cfg.Defaults.Units, "defaults fill the rest")

	var tuiCfg struct {
		Theme string `yaml:"theme"`
	}
	require.NoError(t, cfg.UnmarshalExtension("tui", &tuiCfg))
	assert.Equal(t, "kanagawa", tuiCfg.Theme)
}

func TestInvalidGlobalConfigIsSkipped(t *testing.T) {
	home := isolate(t)
	globalDir := filepath.Join(home, "config", "hydrate")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "hydrate.yml"), []byte("defaults: [broken"), 0644))

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultGoal, cfg.Defaults.Goal)
}

func TestInvalidProjectConfigFails(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hydrate.yml"), []byte("storage:\n  backend: etcd\n"), 0644))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}
