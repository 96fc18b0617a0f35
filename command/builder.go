// Package command runs the external programs hydrate shells out to, such
// as desktop notification tools. Arguments are validated before anything
// is executed and every run is bounded by a timeout.
package command

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultTimeout bounds a command when no other timeout is set.
	DefaultTimeout = 10 * time.Second

	// MaxTimeout is the longest timeout WithTimeout accepts.
	MaxTimeout = time.Minute

	// MaxArgLength is the longest single argument Build accepts, in bytes.
	MaxArgLength = 1024
)

var programName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

// Builder validates and builds commands.
type Builder struct {
	defaultTimeout time.Duration
	executor       Executor
}

// NewBuilder creates a Builder that runs real processes.
func NewBuilder() *Builder {
	return NewBuilderWithExecutor(RealExecutor{})
}

// NewBuilderWithExecutor creates a Builder with a custom Executor.
func NewBuilderWithExecutor(exec Executor) *Builder {
	return &Builder{
		defaultTimeout: DefaultTimeout,
		executor:       exec,
	}
}

// Available reports whether program can be found on PATH.
func (b *Builder) Available(program string) bool {
	if validateProgram(program) != nil {
		return false
	}
	_, err := b.executor.LookPath(program)
	return err == nil
}

// Build validates the program and its arguments and returns a Command
// ready to run.
func (b *Builder) Build(program string, args ...string) (*Command, error) {
	if err := validateProgram(program); err != nil {
		return nil, err
	}
	for i, arg := range args {
		if err := ValidateArg(arg); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return &Command{
		program:  program,
		args:     append([]string(nil), args...),
		timeout:  b.defaultTimeout,
		executor: b.executor,
	}, nil
}

// validateProgram accepts bare program names only. Paths are rejected so
// that lookups always go through PATH.
func validateProgram(name string) error {
	if name == "" {
		return fmt.Errorf("program name cannot be empty")
	}
	if !programName.MatchString(name) {
		return fmt.Errorf("invalid program name: %q", name)
	}
	return nil
}

// ValidateArg rejects arguments that are too long, are not valid UTF-8,
// or carry control characters other than newline and tab.
func ValidateArg(arg string) error {
	if len(arg) > MaxArgLength {
		return fmt.Errorf("argument too long (%d bytes, max %d)", len(arg), MaxArgLength)
	}
	if !utf8.ValidString(arg) {
		return fmt.Errorf("argument is not valid UTF-8")
	}
	for _, r := range arg {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("argument contains control character %U", r)
		}
	}
	return nil
}

// Command is a validated program invocation.
type Command struct {
	program  string
	args     []string
	timeout  time.Duration
	executor Executor
}

// WithTimeout sets the timeout for the command, capped at MaxTimeout.
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	c.timeout = timeout
	return c
}

// Timeout returns the timeout Run applies.
func (c *Command) Timeout() time.Duration { return c.timeout }

// Args returns a copy of the command's arguments.
func (c *Command) Args() []string { return append([]string(nil), c.args...) }

// String renders the command line for logs.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, c.program)
	for _, arg := range c.args {
		if strings.ContainsAny(arg, " \t\n\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Run executes the command and returns its combined output. A failing
// command's output is included in the error.
func (c *Command) Run(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := c.executor.CommandContext(ctx, c.program, c.args...) //nolint:gosec // program and args are validated by Build
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return out.Bytes(), fmt.Errorf("%s timed out after %s", c.program, c.timeout)
		}
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return out.Bytes(), fmt.Errorf("%s failed: %w: %s", c.program, err, msg)
		}
		return out.Bytes(), fmt.Errorf("%s failed: %w", c.program, err)
	}
	return out.Bytes(), nil
}
