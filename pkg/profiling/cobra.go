package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/grovetools/hydrate/logging"
	"github.com/spf13/cobra"
)

// CobraProfiler adds --cpu-profile, --mem-profile and --timing to a command
// tree.
type CobraProfiler struct {
	cpuPath string
	memPath string
	timing  bool

	cpuFile *os.File
}

// NewCobraProfiler creates a CobraProfiler.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// Attach registers the flags on cmd and installs the persistent pre and
// post run hooks. Subcommands must not define their own persistent hooks.
func (p *CobraProfiler) Attach(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&p.cpuPath, "cpu-profile", "", "Write a CPU profile to file")
	flags.StringVar(&p.memPath, "mem-profile", "", "Write a heap profile to file on exit")
	flags.BoolVar(&p.timing, "timing", false, "Print how long each phase took on exit")
	for _, name := range []string{"cpu-profile", "mem-profile", "timing"} {
		_ = flags.MarkHidden(name)
	}

	cmd.PersistentPreRunE = p.PreRun
	cmd.PersistentPostRun = p.PostRun
}

// PreRun starts timing and CPU profiling as requested.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// PostRun writes the profiles and the timing summary to the command's
// stderr.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	pretty := logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr())
	logger := logging.NewLogger("profiling")

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
		pretty.Path("CPU profile", p.cpuPath)
	}

	if p.memPath != "" {
		if err := writeHeapProfile(p.memPath); err != nil {
			logger.WithError(err).Warn("Could not write heap profile")
		} else {
			pretty.Path("Heap profile", p.memPath)
		}
	}

	if p.timing {
		Summarize(cmd.ErrOrStderr())
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
