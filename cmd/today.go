package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/profiling"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/components/table"
	"github.com/grovetools/hydrate/tui/theme"
	"github.com/spf13/cobra"
)

// TodayOutput is the JSON form of `hydrate today`.
type TodayOutput struct {
	Date      string       `json:"date"`
	Intake    int          `json:"intake_oz"`
	Goal      int          `json:"goal_oz"`
	Remaining int          `json:"remaining_oz"`
	Percent   int          `json:"percent"`
	Units     units.System `json:"units"`
	Emoji     string       `json:"emoji"`
	Display   string       `json:"display"`
}

func NewTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's intake against the goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				reading := profiling.Start("snapshot")
				snap, err := app.Store.Snapshot(ctx)
				reading.Stop()
				if err != nil {
					return err
				}
				system, err := app.DisplayUnits(ctx)
				if err != nil {
					return err
				}
				return printToday(cmd, app, snap, system)
			})
		},
	}
}

func todayOutput(snap *intake.Snapshot, system units.System) TodayOutput {
	return TodayOutput{
		Date:      snap.Date,
		Intake:    snap.Today,
		Goal:      snap.Goal,
		Remaining: intake.Remaining(snap.Today, snap.Goal),
		Percent:   intake.Percent(snap.Today, snap.Goal),
		Units:     system,
		Emoji:     snap.Emoji,
		Display:   units.Format(snap.Today, system),
	}
}

func printToday(cmd *cobra.Command, app *cli.App, snap *intake.Snapshot, system units.System) error {
	out := cmd.OutOrStdout()
	if app.Options.JSONOutput {
		return cli.PrintJSON(out, todayOutput(snap, system))
	}

	t := theme.DefaultTheme
	pretty := logging.NewPrettyLogger().WithWriter(out)

	figure := t.Water
	if snap.Today >= snap.Goal {
		figure = t.GoalMet
	}
	fmt.Fprintf(out, "%s %s\n",
		figure.Render(fmt.Sprintf("%s %s", snap.Emoji, units.Format(snap.Today, system))),
		t.Muted.Render("/ "+units.Format(snap.Goal, system)))
	pretty.Gauge(intake.Fraction(snap.Today, snap.Goal), table.BarWidth)

	if left := intake.Remaining(snap.Today, snap.Goal); left > 0 {
		fmt.Fprintln(out, t.Muted.Render(units.Format(left, system)+" to go"))
	} else {
		pretty.Success("Goal reached!")
	}
	return nil
}
