// Package schema composes the JSON schema for a complete hydrate.yml: the
// core sections owned by package config plus the extension sections read by
// other packages.
package schema

import (
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/tui/keymap"
)

// TUI documents the `tui` extension section.
type TUI struct {
	Theme string           `yaml:"theme,omitempty" jsonschema:"description=Color theme: kanagawa (default)\, tide or terminal"`
	Icons string           `yaml:"icons,omitempty" jsonschema:"description=Icon set,enum=nerd,enum=ascii"`
	Keys  keymap.Overrides `yaml:"keys,omitempty" jsonschema:"description=Dashboard key overrides by snake_case binding name (e.g. add_cup: [a])"`
}

// Extensions maps extension keys to the Go type that decodes them.
var Extensions = map[string]interface{}{
	"logging": logging.Config{},
	"tui":     TUI{},
}
