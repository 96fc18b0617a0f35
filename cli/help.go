package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hydrate/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxHelpWidth = 72
	minHelpWidth = 40
)

// helpWidth returns the width to wrap help text at. Output that is not a
// terminal gets the maximum.
func helpWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxHelpWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minHelpWidth || width > maxHelpWidth {
		return maxHelpWidth
	}
	return width
}

// SetStyledHelp applies hydrate's help layout to a command.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies hydrate's help layout to a command and
// all of its subcommands. Usage output is suppressed; ErrorHandler reports
// failures instead.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// parseDescription splits a long description into text and the block
// following an "Examples:" line.
func parseDescription(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return strings.TrimSpace(long), ""
}

// parseChoices splits usage such as "Storage backend: file, sqlite, redis"
// into the text before the colon and the listed choices. Fewer than three
// choices are left inline.
func parseChoices(usage string) (string, []string) {
	colon := strings.Index(usage, ": ")
	if colon == -1 {
		return usage, nil
	}
	parts := strings.Split(usage[colon+2:], ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(p, "or "))
	}
	return usage[:colon], parts
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

func visibleFlags(set *pflag.FlagSet) []*pflag.Flag {
	var flags []*pflag.Flag
	set.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	return flags
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	t := theme.DefaultTheme
	out := cmd.OutOrStdout()
	width := helpWidth(out) - 2
	wrap := lipgloss.NewStyle().Width(width).PaddingLeft(1)
	section := lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Violet)
	name := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue)
	flagStyle := lipgloss.NewStyle().Foreground(t.Colors.Violet)

	title := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan)
	fmt.Fprintln(out, " "+title.Render(theme.IconWater+" "+strings.ToUpper(cmd.CommandPath())))

	description, examples := parseDescription(cmd.Long)
	if cmd.Short != "" {
		fmt.Fprintln(out, wrap.Italic(true).Render(cmd.Short))
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(out)
		fmt.Fprintln(out, wrap.Render(description))
	}

	fmt.Fprintln(out, "\n "+section.Render("USAGE"))
	if cmd.Runnable() {
		fmt.Fprintf(out, " %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, " %s [command]\n", cmd.CommandPath())
	}
	if len(cmd.Aliases) > 0 {
		fmt.Fprintln(out, " "+t.Muted.Render("Aliases: "+strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasAvailableSubCommands() {
		longest := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > longest {
				longest = len(sub.Name())
			}
		}
		fmt.Fprintln(out, "\n "+section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			pad := strings.Repeat(" ", longest-len(sub.Name()))
			fmt.Fprintf(out, " %s%s  %s\n", name.Render(sub.Name()), pad, sub.Short)
		}
	}

	if local := visibleFlags(cmd.LocalNonPersistentFlags()); len(local) > 0 {
		fmt.Fprintln(out, "\n "+section.Render("FLAGS"))
		longest := 0
		for _, f := range local {
			if n := len(flagName(f)); n > longest {
				longest = n
			}
		}
		for _, f := range local {
			n := flagName(f)
			usage, choices := parseChoices(f.Usage)
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
				usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			fmt.Fprintf(out, " %s%s  %s\n", flagStyle.Render(n), strings.Repeat(" ", longest-len(n)), usage)
			for _, c := range choices {
				fmt.Fprintf(out, " %s  %s\n", strings.Repeat(" ", longest), t.Muted.Render(theme.IconBullet+" "+c))
			}
		}
	}

	// Persistent flags are listed compactly since every command shares them.
	var global []string
	for _, f := range append(visibleFlags(cmd.PersistentFlags()), visibleFlags(cmd.InheritedFlags())...) {
		global = append(global, "--"+f.Name)
	}
	if len(global) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, wrap.Inherit(t.Muted).Render("Global flags: "+strings.Join(global, ", ")))
	}

	if examples == "" {
		examples = strings.TrimSpace(cmd.Example)
	}
	if examples != "" {
		fmt.Fprintln(out, "\n "+section.Render("EXAMPLES"))
		root := cmd.Root().Name()
		for _, line := range strings.Split(examples, "\n") {
			fmt.Fprintln(out, " "+styleExampleLine(t, strings.TrimSpace(line), root))
		}
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// styleExampleLine mutes comments and colors the program, subcommand and
// flags of an example invocation.
func styleExampleLine(t *theme.Theme, line, root string) string {
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "#") {
		return t.Muted.Render(line)
	}
	parts := strings.Fields(line)
	for i, part := range parts {
		switch {
		case i == 0 && part == root:
			parts[i] = lipgloss.NewStyle().Foreground(t.Colors.Cyan).Render(part)
		case strings.HasPrefix(part, "-"):
			parts[i] = lipgloss.NewStyle().Foreground(t.Colors.Violet).Render(part)
		case i == 1:
			parts[i] = lipgloss.NewStyle().Foreground(t.Colors.Blue).Render(part)
		}
	}
	return "  " + strings.Join(parts, " ")
}
