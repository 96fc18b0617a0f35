package cmd

import (
	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/kv/backend"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput represents the XDG-compliant paths used by hydrate.
type PathsOutput struct {
	ConfigDir string `json:"config_dir"`
	DataDir   string `json:"data_dir"`
	StateDir  string `json:"state_dir"`
	LogDir    string `json:"log_dir"`
	Backend   string `json:"backend"`
	Storage   string `json:"storage"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by hydrate",
		Long: `Print the XDG-compliant paths used by hydrate.

The paths follow the XDG Base Directory Specification and can be moved
together with HYDRATE_HOME:
- config_dir: Configuration files (hydrate.yml)
- data_dir: Persistent data (the sqlite database)
- state_dir: Runtime state (the file store)
- log_dir: Log files (subdirectory of state_dir)
- storage: Where the configured backend keeps its data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			output := PathsOutput{
				ConfigDir: paths.ConfigDir(),
				DataDir:   paths.DataDir(),
				StateDir:  paths.StateDir(),
				LogDir:    paths.LogDir(),
				Backend:   cfg.Storage.Backend,
				Storage:   backend.Location(cfg.Storage),
			}

			out := cmd.OutOrStdout()
			if opts.JSONOutput {
				return cli.PrintJSON(out, output)
			}
			pretty := logging.NewPrettyLogger().WithWriter(out)
			pretty.Path("Config", output.ConfigDir)
			pretty.Path("Data", output.DataDir)
			pretty.Path("State", output.StateDir)
			pretty.Path("Logs", output.LogDir)
			pretty.Field("Backend", output.Backend)
			pretty.Path("Storage", output.Storage)
			return nil
		},
	}

	return cmd
}
