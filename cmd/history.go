package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/components/table"
	"github.com/spf13/cobra"
)

// HistoryOutput is the JSON form of `hydrate history`.
type HistoryOutput struct {
	Goal  int               `json:"goal_oz"`
	Units units.System      `json:"units"`
	Days  []intake.DayEntry `json:"days"`
}

func NewHistoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show intake for the last days, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > intake.MaxHistoryDays {
				return errors.InvalidInput("days", fmt.Sprintf("--days must be between 1 and %d, got %d", intake.MaxHistoryDays, days))
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				entries, err := app.Store.History(ctx, days)
				if err != nil {
					return err
				}
				goal, err := app.Store.Goal(ctx)
				if err != nil {
					return err
				}
				system, err := app.DisplayUnits(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if app.Options.JSONOutput {
					return cli.PrintJSON(out, HistoryOutput{Goal: goal, Units: system, Days: entries})
				}
				emoji, err := app.Store.Emoji(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, table.History(entries, table.HistoryOptions{
					Goal:  goal,
					Units: system,
					Emoji: emoji,
					Today: app.Store.Today(),
				}))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", intake.HistoryDays, "Number of days to show, including today")
	return cmd
}
