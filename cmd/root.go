// Package cmd holds hydrate's cobra commands.
package cmd

import (
	"context"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/pkg/profiling"
	"github.com/grovetools/hydrate/starship"
	"github.com/grovetools/hydrate/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the hydrate command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("hydrate", "Track how much water you drink each day")
	root.Long = `Track how much water you drink each day.

hydrate keeps a running total for today, a daily goal and a week of
history. Amounts are stored in ounces and can be shown in ounces or
milliliters.

Examples:
  # Log a default cup
  hydrate add

  # Log 350 ml
  hydrate add 350ml

  # Set the daily goal to 2 liters
  hydrate goal 2000ml

  # Open the live dashboard
  hydrate dashboard
`
	cli.SetVersionTemplate(root, version.GetInfo())
	profiling.NewCobraProfiler().Attach(root)

	root.AddCommand(
		NewTodayCmd(),
		NewAddCmd(),
		NewSetCmd(),
		NewResetCmd(),
		NewHistoryCmd(),
		NewGoalCmd(),
		NewUnitsCmd(),
		NewEmojiCmd(),
		NewRemindCmd(),
		NewDashboardCmd(),
		NewExportCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		NewLogsCmd(),
		starship.NewStarshipCmd("hydrate"),
		cli.NewVersionCommand("hydrate"),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// Execute runs the command tree and reports errors through cli.ErrorHandler.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		return cli.NewErrorHandler(verbose).Handle(err)
	}
	return nil
}

// withApp opens the application for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := cli.NewApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
