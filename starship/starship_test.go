package starship

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/hydrate/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeProvider(t *testing.T) {
	ctx := context.Background()

	out, err := IntakeProvider(ctx, Status{Intake: 24, Goal: 64, Units: units.Imperial, Emoji: "💧"})
	require.NoError(t, err)
	assert.Equal(t, "💧 24/64 oz", out)

	out, _ = IntakeProvider(ctx, Status{Intake: 8, Goal: 64, Units: units.Metric, Emoji: "💧"})
	assert.Equal(t, "💧 237/1893 ml", out)

	out, _ = IntakeProvider(ctx, Status{Intake: 70, Goal: 64, Units: units.Imperial, Emoji: "🥤"})
	assert.Equal(t, "🥤 70/64 oz ✓", out)

	out, _ = IntakeProvider(ctx, Status{Intake: 5})
	assert.Empty(t, out)
}

func TestRenderJoinsProviders(t *testing.T) {
	saved := GetProviders()
	t.Cleanup(func() {
		ClearProviders()
		for _, p := range saved {
			RegisterProvider(p)
		}
	})

	RegisterProvider(func(context.Context, Status) (string, error) { return "", nil })
	RegisterProvider(func(context.Context, Status) (string, error) { return "streak 3", nil })

	out := Render(context.Background(), Status{Intake: 10, Goal: 64, Units: units.Imperial, Emoji: "💧"})
	assert.Equal(t, "💧 10/64 oz | streak 3", out)
}

func TestInstall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starship.toml")
	require.NoError(t, os.WriteFile(path, []byte("format = \"\"\"\n$directory\\\n$git_metrics\\\n$character\"\"\"\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, Install(&out, path, "hydrate"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[custom.hydrate]")
	assert.Contains(t, content, `command = "hydrate starship status"`)
	assert.Contains(t, content, "$git_metrics\\\n${custom.hydrate}\\")
	assert.Contains(t, out.String(), "Added hydrate module to starship format")

	// A second install refreshes the section in place.
	out.Reset()
	require.NoError(t, Install(&out, path, "hydrate"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "[custom.hydrate]"))
	assert.Equal(t, 1, strings.Count(string(data), "# Added by"))
	assert.Contains(t, out.String(), "already in starship format")
}

func TestInstallMissingConfig(t *testing.T) {
	err := Install(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.toml"), "hydrate")
	assert.ErrorContains(t, err, "starship config not found")
}

func TestConfigPath(t *testing.T) {
	t.Setenv("STARSHIP_CONFIG", "/tmp/custom-starship.toml")
	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-starship.toml", path)
}
