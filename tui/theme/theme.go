package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hydrate/config"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa Dragon (dark) palette ---
const (
	kanagawaDarkGreen     = "#98BB6C"
	kanagawaDarkYellow    = "#FF9E3B"
	kanagawaDarkRed       = "#FF5D62"
	kanagawaDarkCyan      = "#7E9CD8"
	kanagawaDarkBlue      = "#7FB4CA"
	kanagawaDarkViolet    = "#957FB8"
	kanagawaDarkLightText = "#DCD7BA"
	kanagawaDarkMutedText = "#727169"
	kanagawaDarkBorder    = "#363646"
	kanagawaDarkTrack     = "#2A2A37"
)

// --- Kanagawa Wave (light-inspired) palette ---
const (
	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightBlue      = "#4F7CAC"
	kanagawaLightViolet    = "#674D7A"
	kanagawaLightLightText = "#2B2F42"
	kanagawaLightMutedText = "#6C7086"
	kanagawaLightBorder    = "#B5BDC5"
	kanagawaLightTrack     = "#E2E6F3"
)

// --- Tide palette: blues for the water gauge ---
const (
	tideDarkGreen     = "#5EEAD4"
	tideDarkYellow    = "#FCD34D"
	tideDarkRed       = "#F87171"
	tideDarkCyan      = "#22D3EE"
	tideDarkBlue      = "#38BDF8"
	tideDarkViolet    = "#818CF8"
	tideDarkLightText = "#E0F2FE"
	tideDarkMutedText = "#64748B"
	tideDarkBorder    = "#1E3A5F"
	tideDarkTrack     = "#0F2942"

	tideLightGreen     = "#0F766E"
	tideLightYellow    = "#B45309"
	tideLightRed       = "#B91C1C"
	tideLightCyan      = "#0E7490"
	tideLightBlue      = "#0369A1"
	tideLightViolet    = "#4338CA"
	tideLightLightText = "#0C4A6E"
	tideLightMutedText = "#64748B"
	tideLightBorder    = "#BAE6FD"
	tideLightTrack     = "#E0F2FE"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalBlue      = "4"
	terminalViolet    = "5"
	terminalLightText = "7"
	terminalMutedText = "8"
	terminalBorder    = "8"
	terminalTrack     = "0"
)

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Blue      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	LightText lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	// Track is the unfilled part of the progress gauge.
	Track lipgloss.TerminalColor
}

// Theme holds all the pre-configured styles used by hydrate.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableBorder lipgloss.Style

	Box lipgloss.Style

	Input       lipgloss.Style
	Placeholder lipgloss.Style

	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Water is the intake figure; GoalMet replaces it once the goal is reached.
	Water   lipgloss.Style
	GoalMet lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"tide":     newTideColors,
	"terminal": newTerminalColors,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"kanagawa-wave":   "kanagawa",
	"ocean":           "tide",
	"ansi":            "terminal",
}

// DefaultTheme is the theme selected by HYDRATE_THEME or the tui section of
// hydrate.yml.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name. Unknown
// names fall back to the default palette.
func NewThemeWithName(name string) *Theme {
	key := resolveThemeName(name)
	return newThemeFromColors(themeRegistry[key](), key)
}

// Names lists the available palettes.
func Names() []string {
	return []string{"kanagawa", "tide", "terminal"}
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

// Hex resolves a palette color to the string form bubbles components take.
// Adaptive colors pick the variant for the terminal background.
func Hex(c lipgloss.TerminalColor) string {
	switch v := c.(type) {
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return v.Dark
		}
		return v.Light
	case lipgloss.Color:
		return string(v)
	default:
		return ""
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Blue),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Normal: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Faint(true),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Blue).
			Padding(0, 1),

		TableRow: lipgloss.NewStyle().
			Padding(0, 1),

		TableBorder: lipgloss.NewStyle().
			Foreground(colors.Border),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(1, 2),

		Input: lipgloss.NewStyle().
			Foreground(colors.LightText),

		Placeholder: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Italic(true),

		Highlight: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		Water: lipgloss.NewStyle().
			Foreground(colors.Blue).
			Bold(true),

		GoalMet: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),
	}
}

func resolveThemeName(name string) string {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	if _, ok := themeRegistry[key]; ok {
		return key
	}
	return defaultThemeName
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

// tuiConfig is the `tui` extension section of hydrate.yml.
type tuiConfig struct {
	Theme string `yaml:"theme"`
	Icons string `yaml:"icons"`
}

func loadTUIConfig() tuiConfig {
	var tuiCfg tuiConfig
	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return tuiCfg
	}
	_ = cfg.UnmarshalExtension("tui", &tuiCfg)
	return tuiCfg
}

func getThemeName() string {
	if name := normalizeThemeName(os.Getenv("HYDRATE_THEME")); name != "" {
		return name
	}
	if name := normalizeThemeName(loadTUIConfig().Theme); name != "" {
		return name
	}
	return defaultThemeName
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Blue:      lipgloss.AdaptiveColor{Light: kanagawaLightBlue, Dark: kanagawaDarkBlue},
		Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		LightText: lipgloss.AdaptiveColor{Light: kanagawaLightLightText, Dark: kanagawaDarkLightText},
		MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		Border:    lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
		Track:     lipgloss.AdaptiveColor{Light: kanagawaLightTrack, Dark: kanagawaDarkTrack},
	}
}

func newTideColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: tideLightGreen, Dark: tideDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: tideLightYellow, Dark: tideDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: tideLightRed, Dark: tideDarkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: tideLightCyan, Dark: tideDarkCyan},
		Blue:      lipgloss.AdaptiveColor{Light: tideLightBlue, Dark: tideDarkBlue},
		Violet:    lipgloss.AdaptiveColor{Light: tideLightViolet, Dark: tideDarkViolet},
		LightText: lipgloss.AdaptiveColor{Light: tideLightLightText, Dark: tideDarkLightText},
		MutedText: lipgloss.AdaptiveColor{Light: tideLightMutedText, Dark: tideDarkMutedText},
		Border:    lipgloss.AdaptiveColor{Light: tideLightBorder, Dark: tideDarkBorder},
		Track:     lipgloss.AdaptiveColor{Light: tideLightTrack, Dark: tideDarkTrack},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Cyan:      lipgloss.Color(terminalCyan),
		Blue:      lipgloss.Color(terminalBlue),
		Violet:    lipgloss.Color(terminalViolet),
		LightText: lipgloss.Color(terminalLightText),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
		Track:     lipgloss.Color(terminalTrack),
	}
}
