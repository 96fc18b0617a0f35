package cmd

import (
	"context"
	"os"
	"time"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/spf13/cobra"
)

// Export is a full dump of the stored data.
type Export struct {
	ExportedAt time.Time         `json:"exported_at"`
	Goal       int               `json:"goal_oz"`
	Units      units.System      `json:"units"`
	Emoji      string            `json:"emoji"`
	Records    []intake.DayEntry `json:"records"`
}

func NewExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored day as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				records, err := app.Store.Records(ctx)
				if err != nil {
					return err
				}
				snap, err := app.Store.Snapshot(ctx)
				if err != nil {
					return err
				}
				export := Export{
					ExportedAt: app.Store.Now(),
					Goal:       snap.Goal,
					Units:      snap.Units,
					Emoji:      snap.Emoji,
					Records:    records,
				}

				if outPath == "" || outPath == "-" {
					return cli.PrintJSON(cmd.OutOrStdout(), export)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := cli.PrintJSON(f, export); err != nil {
					return err
				}
				logging.NewUnifiedLogger("cli.export").
					Success("Exported records").
					Field("records", len(records)).
					Field("path", outPath).
					Log(logging.WithWriter(ctx, cmd.ErrOrStderr()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "File to write (default: stdout)")
	return cmd
}
