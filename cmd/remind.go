package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/grovetools/hydrate/pkg/process"
	"github.com/grovetools/hydrate/pkg/reminders"
	"github.com/grovetools/hydrate/tui/theme"
	"github.com/spf13/cobra"
)

// ReminderOutput is the JSON form of `hydrate remind --list`.
type ReminderOutput struct {
	Hours []int       `json:"hours"`
	Next  []time.Time `json:"next"`
	PID   int         `json:"pid,omitempty"`
}

func NewRemindCmd() *cobra.Command {
	var (
		hours   []int
		list    bool
		now     bool
		desktop bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the drink reminder schedule in the foreground",
		Long: `Run the drink reminder schedule in the foreground until interrupted.

Reminders fire on the hour at the configured local hours
(reminders.hours, every two hours from 8 to 20 by default).

Examples:
  # Print the upcoming reminders
  hydrate remind --list

  # Remind at 9, 13 and 17 until Ctrl-C
  hydrate remind --hours 9,13,17

  # Deliver one reminder right away
  hydrate remind --now
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logging.WithWriter(ctx, cmd.OutOrStdout())

			if !cmd.Flags().Changed("desktop") {
				desktop = cfg.Reminders.Desktop
			}
			notifier := reminders.WithDesktop(reminders.NewLogNotifier(), desktop, logger)
			sched := reminders.FromConfig(cfg, notifier)
			if now {
				return sched.Fire(ctx)
			}

			if !cmd.Flags().Changed("hours") {
				hours = cfg.Reminders.Hours
			}
			if err := sched.Schedule(hours); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				result := ReminderOutput{Hours: sched.Hours(), Next: sched.Next()}
				if running, pid, _ := process.NewPIDFile(paths.ReminderPIDPath()).Running(); running {
					result.PID = pid
				}
				if opts.JSONOutput {
					return cli.PrintJSON(out, result)
				}
				for _, at := range result.Next {
					fmt.Fprintf(out, "%s %s\n", theme.IconBell, at.Format("Mon 15:04"))
				}
				if result.PID != 0 {
					fmt.Fprintln(out, theme.DefaultTheme.Muted.Render(fmt.Sprintf("Scheduler running (PID %d)", result.PID)))
				}
				return nil
			}

			pidFile := process.NewPIDFile(paths.ReminderPIDPath())
			if err := pidFile.Acquire(); err != nil {
				var running *process.AlreadyRunningError
				if stderrors.As(err, &running) {
					return errors.New(errors.ErrCodeScheduler, "reminders are already running").
						WithDetail("pid", running.PID).
						WithDetail("pid_file", pidFile.Path())
				}
				return errors.SchedulerFailed(err)
			}
			defer func() {
				if err := pidFile.Release(); err != nil {
					logger.WithError(err).Warn("Failed to remove reminder pid file")
				}
			}()

			logger.WithField("hours", sched.Hours()).Info("Reminders scheduled")
			if next := sched.Next(); len(next) > 0 {
				fmt.Fprintln(out, theme.DefaultTheme.Muted.Render("Next reminder at "+next[0].Format("15:04")+". Press Ctrl-C to stop."))
			}
			return sched.Run(ctx)
		},
	}

	cmd.Flags().IntSliceVar(&hours, "hours", nil, "Local hours (0-23) at which to remind (default: reminders.hours)")
	cmd.Flags().BoolVar(&list, "list", false, "Print the upcoming reminders and exit")
	cmd.Flags().BoolVar(&now, "now", false, "Deliver a reminder immediately and exit")
	cmd.Flags().BoolVar(&desktop, "desktop", false, "Also show desktop notifications (default: reminders.desktop)")
	return cmd
}
