package starship

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/hydrate/cli"
	"github.com/spf13/cobra"
)

// NewStarshipCmd creates the starship command and its subcommands.
// binaryName is written into starship.toml as the command to run, e.g.
// "hydrate" yields command = "hydrate starship status".
func NewStarshipCmd(binaryName string) *cobra.Command {
	starshipCmd := &cobra.Command{
		Use:   "starship",
		Short: "Manage Starship prompt integration",
		Long:  `Show today's intake in the Starship prompt.`,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Add the hydrate module to your starship.toml",
		Long: `Appends a custom module to your starship.toml (or $STARSHIP_CONFIG) that
shows today's intake, and adds it to the prompt format when possible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ConfigPath()
			if err != nil {
				return err
			}
			return Install(cmd.OutOrStdout(), path, binaryName)
		},
	}

	statusCmd := &cobra.Command{
		Use:    "status",
		Short:  "Print status for Starship prompt (for internal use)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   runStarshipStatus,
	}

	starshipCmd.AddCommand(installCmd, statusCmd)
	return starshipCmd
}

// ConfigPath returns $STARSHIP_CONFIG or ~/.config/starship.toml.
func ConfigPath() (string, error) {
	if path := os.Getenv("STARSHIP_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "starship.toml"), nil
}

// Install adds or refreshes the [custom.hydrate] module in the starship
// config at path.
func Install(w io.Writer, path, binaryName string) error {
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("starship config not found at %s. Please ensure starship is installed and configured", path)
		}
		return fmt.Errorf("could not read starship config: %w", err)
	}
	content := string(contentBytes)

	moduleConfig := fmt.Sprintf(`
# Added by '%s starship install'
[custom.hydrate]
description = "Shows today's water intake"
command = "%s starship status"
when = true
format = " $output "
`, binaryName, binaryName)

	const header = "[custom.hydrate]"
	if start := strings.Index(content, header); start != -1 {
		end := len(content)
		if next := strings.Index(content[start+len(header):], "\n["); next != -1 {
			end = start + len(header) + next + 1
		}
		// Drop the comment line written with the previous section.
		prefix := strings.TrimSuffix(content[:start], fmt.Sprintf("# Added by '%s starship install'\n", binaryName))
		content = strings.TrimRight(prefix, "\n") + "\n" + moduleConfig + content[end:]
		fmt.Fprintln(w, "✓ Updated the hydrate starship module.")
	} else {
		content += moduleConfig
		fmt.Fprintln(w, "✓ Added [custom.hydrate] module to starship config.")
	}

	switch {
	case strings.Contains(content, "${custom.hydrate}") || strings.Contains(content, "$custom.hydrate"):
		fmt.Fprintln(w, "✓ hydrate module already in starship format.")
	case strings.Contains(content, "$git_metrics\\"):
		content = strings.Replace(content, "$git_metrics\\", "$git_metrics\\\n${custom.hydrate}\\", 1)
		fmt.Fprintln(w, "✓ Added hydrate module to starship format.")
	default:
		fmt.Fprintf(w, "⚠️  Could not automatically add '${custom.hydrate}' to your starship format.\n")
		fmt.Fprintf(w, "   Please add it manually to the 'format' string in %s\n", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write updated starship config: %w", err)
	}
	fmt.Fprintf(w, "\nSuccessfully updated %s. Please restart your shell to see the changes.\n", path)
	return nil
}

// runStarshipStatus must be fast and never print errors: a broken store
// just hides the segment.
func runStarshipStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := cli.NewApp(ctx, cmd)
	if err != nil {
		return nil
	}
	defer app.Close()

	status, err := load(ctx, app)
	if err != nil {
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), Render(ctx, status))
	return nil
}

func load(ctx context.Context, app *cli.App) (Status, error) {
	today, err := app.Store.TodayIntake(ctx)
	if err != nil {
		return Status{}, err
	}
	goal, err := app.Store.Goal(ctx)
	if err != nil {
		return Status{}, err
	}
	system, err := app.DisplayUnits(ctx)
	if err != nil {
		return Status{}, err
	}
	emoji, err := app.Store.Emoji(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Intake: today, Goal: goal, Units: system, Emoji: emoji}, nil
}

// Render joins the non-empty segments of every provider.
func Render(ctx context.Context, s Status) string {
	var outputs []string
	for _, provider := range providers {
		out, err := provider(ctx, s)
		if err != nil || out == "" {
			continue
		}
		outputs = append(outputs, out)
	}
	return strings.Join(outputs, " | ")
}
