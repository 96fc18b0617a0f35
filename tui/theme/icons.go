package theme

import (
	"os"
	"strings"
)

// Nerd Font Icons (Private Constants)
const (
	nerdIconSuccess  = "\U000f012c" // md-check
	nerdIconError    = "\uea87"     // cod-error
	nerdIconWarning  = "\uf071"     // fa-warning
	nerdIconInfo     = "\U000f02fc" // md-information
	nerdIconBullet   = "\uf444"     // oct-dot_fill
	nerdIconWater    = "\U000f058c" // md-water
	nerdIconGoal     = "\U000f04fe" // md-target
	nerdIconBell     = "\U000f009a" // md-bell
	nerdIconCalendar = "\U000f00ed" // md-calendar
	nerdIconSave     = "\U000f0249" // md-floppy
)

// ASCII Fallback Icons (Private Constants)
const (
	asciiIconSuccess  = "✓"
	asciiIconError    = "✗"
	asciiIconWarning  = "⚠"
	asciiIconInfo     = "ℹ"
	asciiIconBullet   = "•"
	asciiIconWater    = "~"
	asciiIconGoal     = "◎"
	asciiIconBell     = "!"
	asciiIconCalendar = "#"
	asciiIconSave     = "[S]"
)

// Public Icon Variables
var (
	IconSuccess  string
	IconError    string
	IconWarning  string
	IconInfo     string
	IconBullet   string
	IconWater    string
	IconGoal     string
	IconBell     string
	IconCalendar string
	IconSave     string
)

func init() {
	mode := os.Getenv("HYDRATE_ICONS")
	if mode == "" {
		mode = loadTUIConfig().Icons
	}
	UseIcons(mode)
}

// UseIcons switches between the nerd font ("nerd", the default) and ASCII
// ("ascii") icon sets.
func UseIcons(mode string) {
	if strings.EqualFold(strings.TrimSpace(mode), "ascii") {
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconBullet = asciiIconBullet
		IconWater = asciiIconWater
		IconGoal = asciiIconGoal
		IconBell = asciiIconBell
		IconCalendar = asciiIconCalendar
		IconSave = asciiIconSave
		return
	}

	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconWarning = nerdIconWarning
	IconInfo = nerdIconInfo
	IconBullet = nerdIconBullet
	IconWater = nerdIconWater
	IconGoal = nerdIconGoal
	IconBell = nerdIconBell
	IconCalendar = nerdIconCalendar
	IconSave = nerdIconSave
}
