package cmd

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	gojson "github.com/goccy/go-json"
	"github.com/grovetools/hydrate/cli"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/logging/logutil"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/grovetools/hydrate/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TailedLine is one line of log output and the component that wrote it.
type TailedLine struct {
	Component string
	Line      string
}

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show hydrate's log files",
		Long: `Show the log files written when logging.file.enabled is set.

Logs are kept per component and per day under the state directory, unless
logging.file.path names a single file.

Examples:
  # Today's logs from every component
  hydrate logs

  # Follow the reminder scheduler
  hydrate logs -f --component reminders

  # The last 50 lines from a given day, as JSON lines
  hydrate logs --date 2026-10-18 --tail 50 --json
`,
		Args: cobra.NoArgs,
		RunE: runLogsE,
	}

	cmd.Flags().StringP("component", "C", "", "Only show logs from this component")
	cmd.Flags().String("date", "", "Day to show, as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of each file (default: all)")
	cmd.Flags().Bool("list", false, "List log files instead of printing them")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	component, _ := cmd.Flags().GetString("component")
	date, _ := cmd.Flags().GetString("date")
	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")
	list, _ := cmd.Flags().GetBool("list")

	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}

	cfg, err := cli.LoadConfig(opts)
	if err != nil {
		return err
	}
	var logCfg logging.Config
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		return err
	}

	files, err := logutil.FindLogFiles(logCfg, paths.LogDir(), component, date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if list {
		if opts.JSONOutput {
			return cli.PrintJSON(out, files)
		}
		for _, f := range files {
			fmt.Fprintln(out, f.Path)
		}
		return nil
	}

	if len(files) == 0 {
		logger.WithFields(logrus.Fields{"date": date, "component": component}).Debug("No log files")
		fmt.Fprintln(cmd.ErrOrStderr(), theme.DefaultTheme.Muted.Render("No logs for "+date))
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lineChan := make(chan TailedLine, 100)
	var wg sync.WaitGroup
	for _, f := range files {
		logger.WithField("log_file", f.Path).Debug("Tailing log file")
		wg.Add(1)
		go func(f logutil.LogFile) {
			defer wg.Done()
			if err := tailFile(ctx, f, lineChan, follow, tailLines); err != nil {
				logger.WithError(err).WithField("log_file", f.Path).Warn("Failed to read log file")
			}
		}(f)
	}

	go func() {
		wg.Wait()
		close(lineChan)
	}()

	for tailedLine := range lineChan {
		if opts.JSONOutput {
			printLogJSON(out, tailedLine)
		} else {
			printLogText(out, tailedLine)
		}
	}
	return nil
}

// tailFile sends the last tailLines lines of f, or all of them when
// tailLines is negative, then keeps following when asked.
func tailFile(ctx context.Context, f logutil.LogFile, lineChan chan<- TailedLine, follow bool, tailLines int) error {
	discard := stdlog.New(io.Discard, "", 0)

	existing, err := tail.TailFile(f.Path, tail.Config{
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		MustExist: true,
		Logger:    discard,
	})
	if err != nil {
		return err
	}
	var lines []string
	for line := range existing.Lines {
		if line.Err != nil {
			continue
		}
		lines = append(lines, line.Text)
	}
	existing.Cleanup()

	if tailLines >= 0 && len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		select {
		case lineChan <- TailedLine{Component: f.Component, Line: line}:
		case <-ctx.Done():
			return nil
		}
	}

	if !follow {
		return nil
	}

	// ReOpen keeps following across truncation or replacement of the file.
	t, err := tail.TailFile(f.Path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   discard,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil || line.Text == "" {
				continue
			}
			select {
			case lineChan <- TailedLine{Component: f.Component, Line: line.Text}:
			case <-ctx.Done():
				return t.Stop()
			}
		}
	}
}

// printLogJSON prints a log line as a JSON object tagged with its component.
func printLogJSON(w io.Writer, tailedLine TailedLine) {
	var logMap map[string]interface{}
	if err := gojson.Unmarshal([]byte(tailedLine.Line), &logMap); err != nil || logMap == nil {
		logMap = map[string]interface{}{
			"raw_line": tailedLine.Line,
		}
	}
	if _, ok := logMap["component"]; !ok && tailedLine.Component != "" {
		logMap["component"] = tailedLine.Component
	}
	data, _ := gojson.Marshal(logMap)
	fmt.Fprintln(w, string(data))
}

// printLogText pretty-prints a log line. Lines written by the text
// formatter are passed through unchanged.
func printLogText(w io.Writer, tailedLine TailedLine) {
	t := theme.DefaultTheme
	var logMap map[string]interface{}
	if err := gojson.Unmarshal([]byte(tailedLine.Line), &logMap); err != nil {
		fmt.Fprintln(w, tailedLine.Line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)
	if component == "" {
		component = tailedLine.Component
	}

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	var keys []string
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), logMap[k]))
	}

	fmt.Fprintf(w, "%s %s [%s] %s %s\n",
		parsedTime.Format("15:04:05"),
		levelStyle.Render(strings.ToUpper(level)),
		t.Accent.Render(component),
		msg,
		strings.Join(fields, " "),
	)
}
