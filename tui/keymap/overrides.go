package keymap

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/logging"
)

// Overrides maps snake_case binding names to replacement keys.
type Overrides map[string][]string

// LoadOverrides reads tui.keys from the active configuration. A missing or
// unreadable configuration yields no overrides.
func LoadOverrides() Overrides {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil
	}
	var tuiCfg struct {
		Keys Overrides `yaml:"keys"`
	}
	if err := cfg.UnmarshalExtension("tui", &tuiCfg); err != nil {
		logging.NewLogger("keymap").WithError(err).Warn("Ignoring invalid tui.keys")
		return nil
	}
	return tuiCfg.Keys
}

// ApplyOverrides applies keybinding overrides to any KeyMap struct.
// It uses reflection to map config keys (snake_case) to struct fields (CamelCase).
// Only fields of type key.Binding are processed. Embedded structs are recursively processed.
//
// Example:
//
//	km := keymap.DefaultDashboard()
//	ApplyOverrides(&km, Overrides{"add_cup": {"c"}}) // -> km.AddCup
func ApplyOverrides(km interface{}, overrides Overrides) {
	if overrides == nil {
		return
	}

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	applyOverridesRecursive(v, overrides)
}

func applyOverridesRecursive(v reflect.Value, overrides Overrides) {
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverridesRecursive(field, overrides)
			continue
		}

		if fieldType.Type != bindingType {
			continue
		}

		configKey := camelToSnake(fieldType.Name)
		if keys, ok := overrides[configKey]; ok && len(keys) > 0 {
			// Keep the help description, show the first new key.
			helpDesc := field.Interface().(key.Binding).Help().Desc
			newBinding := key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(keys[0], helpDesc),
			)
			field.Set(reflect.ValueOf(newBinding))
		}
	}
}

// camelToSnake converts a CamelCase string to snake_case.
// Examples: AddCup -> add_cup, QuickAdd -> quick_add
func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
