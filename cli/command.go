package cli

import (
	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the global flags.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
	Storage    string
	// Units is empty unless --units was given.
	Units units.System
}

// NewStandardCommand creates a new command with the standard hydrate flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var system units.System
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to hydrate.yml config file")
	cmd.PersistentFlags().String("storage", "", "Storage backend: file, sqlite, redis, memory")
	cmd.PersistentFlags().Var(&system, "units", "Display units for this run: imperial, metric")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the logger for a command, raising every hydrate logger
// to debug when --verbose is set.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logging.SetLevel(logrus.DebugLevel)
	}
	return logging.NewLogger("cli." + cmd.Name())
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	storage, _ := cmd.Flags().GetString("storage")

	opts := CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
		Storage:    storage,
	}
	if f := cmd.Flags().Lookup("units"); f != nil && f.Changed {
		opts.Units = units.System(f.Value.String())
	}
	return opts
}

// LoadConfig loads the configuration named by --config, or the merged
// default configuration, then applies --storage.
func LoadConfig(opts CommandOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if opts.Storage != "" {
		cfg.Storage.Backend = opts.Storage
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid --storage").
				WithDetail("backend", opts.Storage)
		}
	}
	return cfg, nil
}
