package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/schema"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect hydrate's configuration",
		Long: `Inspect hydrate's configuration.

Configuration is merged from the global file
(~/.config/hydrate/hydrate.yml), the nearest hydrate.yml or hydrate.toml
above the current directory, hydrate.override.* files beside it, and
HYDRATE_* environment variables.`,
	}

	cmd.AddCommand(newConfigShowCmd(), newConfigPathCmd(), newConfigSchemaCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.JSONOutput {
				return cli.PrintJSON(out, cfg)
			}

			var data []byte
			switch format {
			case "yaml", "yml":
				data, err = yaml.Marshal(cfg)
			case "toml":
				data, err = toml.Marshal(cfg)
			default:
				return errors.InvalidInput("format", fmt.Sprintf("Unknown format %q. Use yaml or toml.", format))
			}
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or toml")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			path := opts.ConfigFile
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get current directory: %w", err)
				}
				path, err = config.FindConfigFile(cwd)
				if errors.Is(err, errors.ErrCodeConfigNotFound) {
					path = ""
				} else if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.JSONOutput {
				return cli.PrintJSON(out, map[string]string{"path": path})
			}
			if path == "" {
				fmt.Fprintln(out, "No configuration file found; using defaults")
				return nil
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	var (
		outPath string
		base    bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for hydrate.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			generate := schema.Compose
			if base {
				generate = config.GenerateSchema
			}
			data, err := generate()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr()).Path("Wrote schema", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "File to write (default: stdout)")
	cmd.Flags().BoolVar(&base, "base", false, "Only the core sections, without logging and tui")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file, extension sections included",
		Long: `Check a configuration file against the full schema, including the
logging and tui sections that are otherwise read leniently. Without a file
the configuration in effect is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cli.GetOptions(cmd).ConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get current directory: %w", err)
				}
				if path, err = config.FindConfigFile(cwd); err != nil {
					return err
				}
			}

			validator, err := schema.NewValidator()
			if err != nil {
				return err
			}
			if err := validator.ValidateFile(path); err != nil {
				return err
			}
			if _, err := config.Load(path); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success(path + " is valid")
			return nil
		},
	}
}
