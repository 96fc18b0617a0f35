package command

import (
	"context"
	"os/exec"
)

// Executor creates the exec.Cmd for a built Command. Tests swap it out to
// record invocations or point at a stub binary.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
	LookPath(name string) (string, error)
}

// RealExecutor runs commands through os/exec.
type RealExecutor struct{}

// CommandContext implements Executor.
func (RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// LookPath implements Executor.
func (RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
