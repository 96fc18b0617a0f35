package cmd

import (
	"context"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/spf13/cobra"
)

// PreferenceOutput is the JSON form of the goal, units and emoji commands.
type PreferenceOutput struct {
	Goal    int          `json:"goal_oz"`
	Units   units.System `json:"units"`
	Emoji   string       `json:"emoji"`
	Display string       `json:"display_goal"`
}

func NewGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal [amount]",
		Short: "Show or set the daily goal",
		Long: `Show or set the daily goal. A bare number is read in the display
units; add oz or ml to be explicit.

Examples:
  hydrate goal
  hydrate goal 80
  hydrate goal 2000ml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if len(args) == 1 {
					q, err := parseQuantity(ctx, app, args[0])
					if err != nil {
						return err
					}
					goal, err := app.Settings.UpdateGoal(ctx, q.Value, q.Units)
					if err != nil {
						return err
					}
					system, err := app.DisplayUnits(ctx)
					if err != nil {
						return err
					}
					announce(ctx, cmd, "Goal set to "+units.Format(goal, system))
				}
				return printPreferences(ctx, cmd, app)
			})
		},
	}
}

func NewUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "units [imperial|metric]",
		Short:     "Show or set the display units",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(units.Imperial), string(units.Metric)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if len(args) == 1 {
					system, err := units.Parse(args[0])
					if err != nil {
						return err
					}
					if err := app.Settings.SetUnits(ctx, system); err != nil {
						return err
					}
					announce(ctx, cmd, "Units set to "+system.String())
				}
				return printPreferences(ctx, cmd, app)
			})
		},
	}
}

func NewEmojiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emoji [glyph]",
		Short: "Show or set the emoji shown next to your intake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if len(args) == 1 {
					if err := app.Settings.SetEmoji(ctx, args[0]); err != nil {
						return err
					}
					announce(ctx, cmd, "Emoji set to "+args[0])
				}
				return printPreferences(ctx, cmd, app)
			})
		},
	}
}

// announce reports a change unless --json is set.
func announce(ctx context.Context, cmd *cobra.Command, msg string) {
	if cli.GetOptions(cmd).JSONOutput {
		return
	}
	logging.NewUnifiedLogger("cli."+cmd.Name()).
		Success(msg).
		Log(logging.WithWriter(ctx, cmd.OutOrStdout()))
}

func printPreferences(ctx context.Context, cmd *cobra.Command, app *cli.App) error {
	goal, err := app.Store.Goal(ctx)
	if err != nil {
		return err
	}
	stored, err := app.Store.Units(ctx)
	if err != nil {
		return err
	}
	emoji, err := app.Store.Emoji(ctx)
	if err != nil {
		return err
	}
	display, err := app.DisplayUnits(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if app.Options.JSONOutput {
		return cli.PrintJSON(out, PreferenceOutput{
			Goal:    goal,
			Units:   stored,
			Emoji:   emoji,
			Display: units.Format(goal, display),
		})
	}

	pretty := logging.NewPrettyLogger().WithWriter(out)
	pretty.Field("Goal", units.Format(goal, display))
	pretty.Field("Units", stored.String())
	pretty.Field("Emoji", emoji)
	return nil
}
