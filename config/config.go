package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// EnvPrefix is prepended to every environment override, e.g. HYDRATE_GOAL.
const EnvPrefix = "HYDRATE_"

// Format identifies the encoding of a config document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var configNames = []string{
	"hydrate.yml",
	"hydrate.yaml",
	".hydrate.yml",
	".hydrate.yaml",
	"hydrate.toml",
	".hydrate.toml",
}

// FormatForPath picks the document format from the file extension.
func FormatForPath(path string) Format {
	if strings.HasSuffix(path, ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses a single hydrate configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatForPath(path))
	if err != nil {
		if hErr, ok := errors.As(err); ok {
			return nil, hErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration with hierarchical merging:
// 1. Global config (~/.config/hydrate/hydrate.yml) - base layer
// 2. Project config (hydrate.yml found walking up from cwd) - overrides global
// 3. Local override (hydrate.override.yml) - overrides all
//
// Unlike Load, a missing configuration is not an error: hydrate runs on
// defaults plus environment overrides.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	finalConfig := &Config{}

	// 1. Global config (optional)
	globalPath := globalConfigPath()
	if globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalConfig, err := decodeFile(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			} else {
				finalConfig = mergeConfigs(finalConfig, globalConfig)
			}
		}
	}

	// 2. Project config (optional, searched upward)
	projectPath := findProjectConfig(startDir)
	if projectPath != "" && projectPath != globalPath {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		projectConfig, err := decodeFile(projectPath)
		if err != nil {
			return nil, err
		}
		finalConfig = mergeConfigs(finalConfig, projectConfig)

		// 3. Override files next to the project config
		for _, overridePath := range overrideFiles(filepath.Dir(projectPath)) {
			if _, err := os.Stat(overridePath); err != nil {
				continue
			}
			logger.WithField("path", overridePath).Debug("Loading local override configuration")
			overrideConfig, err := decodeFile(overridePath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse override file, skipping")
				continue
			}
			finalConfig = mergeConfigs(finalConfig, overrideConfig)
		}
	}

	if err := finalize(finalConfig); err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if configData, err := yaml.Marshal(finalConfig); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(configData))
		}
	}

	return finalConfig, nil
}

// LoadFromBytes parses, validates and completes a configuration document.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg, err := decodeBytes(data, format)
	if err != nil {
		return nil, err
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize applies environment overrides, defaults and validation, in that
// order, so that an override can replace a file value and a default only
// fills what nobody set.
func finalize(cfg *Config) error {
	if err := ApplyEnv(cfg); err != nil {
		return err
	}
	cfg.SetDefaults()
	return cfg.Validate()
}

// ApplyEnv overlays HYDRATE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse environment overrides")
	}
	return nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := decodeBytes(data, FormatForPath(path))
	if err != nil {
		if hErr, ok := errors.As(err); ok {
			return nil, hErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// decodeBytes expands ${VAR} references, checks the raw document against the
// JSON Schema and decodes it without applying defaults.
func decodeBytes(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	raw, err := decodeRaw(expanded, format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse configuration")
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		// TOML has no inline maps, so unknown sections are collected by hand.
		for key, value := range raw {
			if knownSections[key] {
				continue
			}
			if cfg.Extensions == nil {
				cfg.Extensions = make(map[string]interface{})
			}
			cfg.Extensions[key] = value
		}
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}

	return &cfg, nil
}

// ReadDocument reads a configuration file as a generic document, with ${VAR}
// references expanded but nothing validated or defaulted.
func ReadDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	raw, err := decodeRaw([]byte(expandEnvVars(string(data))), FormatForPath(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse configuration").
			WithDetail("path", path)
	}
	return raw, nil
}

func decodeRaw(data []byte, format Format) (map[string]interface{}, error) {
	raw := make(map[string]interface{})
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// FindConfigFile searches for hydrate configuration files with the following precedence:
// 1. Current directory up to filesystem root
// 2. XDG config directory (~/.config/hydrate/hydrate.yml)
func FindConfigFile(startDir string) (string, error) {
	if path := findProjectConfig(startDir); path != "" {
		return path, nil
	}

	if globalPath := globalConfigPath(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			return globalPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func findProjectConfig(startDir string) string {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// globalConfigPath returns the first existing global config, or the default
// YAML location when none exists.
func globalConfigPath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"hydrate.yml", "hydrate.yaml", "hydrate.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "hydrate.yml")
}

func overrideFiles(dir string) []string {
	return []string{
		filepath.Join(dir, "hydrate.override.yml"),
		filepath.Join(dir, "hydrate.override.yaml"),
		filepath.Join(dir, ".hydrate.override.yml"),
		filepath.Join(dir, "hydrate.override.toml"),
	}
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
