package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/settings"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/grovetools/hydrate/tui/components/table"
	"github.com/spf13/cobra"
)

func NewAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [amount]",
		Short: "Add water to today's total",
		Long: `Add water to today's total. Without an amount a default cup is added.

An amount may carry a unit (oz or ml). A bare number is read in the
display units.

Examples:
  hydrate add
  hydrate add 12
  hydrate add 350ml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				var (
					total int
					err   error
				)
				if len(args) == 0 {
					total, err = app.Settings.AddCup(ctx)
				} else {
					var q settings.Quantity
					q, err = parseQuantity(ctx, app, args[0])
					if err != nil {
						return err
					}
					total, err = app.Settings.QuickAdd(ctx, q.Value, q.Units)
				}
				if err != nil {
					return err
				}
				return reportToday(cmd, ctx, app, "Today: %s", total)
			})
		},
	}
}

func NewSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: "Overwrite today's total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				q, err := parseQuantity(ctx, app, args[0])
				if err != nil {
					return err
				}
				if err := app.Settings.SetIntake(ctx, q.Value, q.Units); err != nil {
					return err
				}
				return reportToday(cmd, ctx, app, "Today set to %s", q.Ounces())
			})
		},
	}
}

func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Set today's total back to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Settings.Reset(ctx); err != nil {
					return err
				}
				return reportToday(cmd, ctx, app, "Today reset to %s", 0)
			})
		},
	}
}

// parseQuantity reads a bare number in the display units.
func parseQuantity(ctx context.Context, app *cli.App, arg string) (settings.Quantity, error) {
	system, err := app.DisplayUnits(ctx)
	if err != nil {
		return settings.Quantity{}, err
	}
	return settings.ParseQuantity(arg, system)
}

// reportToday prints the new total, or the full today view with --json.
func reportToday(cmd *cobra.Command, ctx context.Context, app *cli.App, format string, total int) error {
	system, err := app.DisplayUnits(ctx)
	if err != nil {
		return err
	}
	if app.Options.JSONOutput {
		snap, err := app.Store.Snapshot(ctx)
		if err != nil {
			return err
		}
		return cli.PrintJSON(cmd.OutOrStdout(), todayOutput(snap, system))
	}

	goal, err := app.Store.Goal(ctx)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf(format, units.Format(total, system))
	logging.NewUnifiedLogger("cli."+cmd.Name()).
		Success(msg).
		Field("intake_oz", total).
		Field("goal_oz", goal).
		Log(logging.WithWriter(ctx, cmd.OutOrStdout()))
	logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Gauge(intake.Fraction(total, goal), table.BarWidth)
	return nil
}
