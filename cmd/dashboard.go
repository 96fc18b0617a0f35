package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/reminders"
	"github.com/grovetools/hydrate/pkg/rollover"
	"github.com/grovetools/hydrate/pkg/watch"
	"github.com/grovetools/hydrate/tui"
	"github.com/grovetools/hydrate/tui/dashboard"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func NewDashboardCmd() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the interactive dashboard: today's intake against the goal, the
last week of history and quick edits.

Edits made by other hydrate processes sharing a file or sqlite store show
up live. Press ? for the key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cli.IsInteractive() {
				return fmt.Errorf("the dashboard requires an interactive terminal; try 'hydrate today'")
			}
			tui.InitializeTUI()

			// Log lines would tear the alternate screen.
			restore := logging.SetGlobalOutput(io.Discard)
			defer restore()

			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return runDashboard(ctx, app, !noWatch)
			})
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch the store for edits by other processes")
	return cmd
}

func runDashboard(ctx context.Context, app *cli.App, watchStore bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The scheduler is built before the model that receives its reminders.
	var model *dashboard.Model
	banner := reminders.NotifierFunc(func(ctx context.Context, r reminders.Reminder) error {
		return model.Notifier().Notify(ctx, r)
	})
	sched := reminders.FromConfig(app.Config, reminders.WithDesktop(banner, app.Config.Reminders.Desktop, app.Logger))
	if app.Config.Reminders.Enabled {
		if err := sched.Schedule(app.Config.Reminders.Hours); err != nil {
			return err
		}
	}

	model = dashboard.New(app.Settings, dashboard.Options{
		Scheduler: sched,
		Hours:     app.Config.Reminders.Hours,
		Rollover:  rollover.ForStore(app.Store, app.Bus, app.Config.RolloverInterval()),
	})
	defer model.Close()

	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	if path := app.StoragePath(); watchStore && path != "" {
		w, err := watch.New(ctx, app.Store, app.Bus, path, watch.DefaultDebounce)
		if err != nil {
			app.Logger.WithError(err).Warn("Cannot watch the store; edits from other processes will not appear")
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	if stderrors.Is(runErr, tea.ErrProgramKilled) {
		return nil
	}
	return runErr
}
