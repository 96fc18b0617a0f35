package logging

import (
	"context"
	"io"
	"os"
)

type contextKey string

const outputWriterKey contextKey = "hydrate_output_writer"

// GetWriter retrieves the user-facing output writer from context, falling
// back to stdout.
func GetWriter(ctx context.Context) io.Writer {
	if ctx != nil {
		if writer, ok := ctx.Value(outputWriterKey).(io.Writer); ok && writer != nil {
			return writer
		}
	}
	return os.Stdout
}

// WithWriter returns a new context carrying the writer that pretty output
// goes to. Commands attach cmd.OutOrStdout() so tests can capture it.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	return context.WithValue(ctx, outputWriterKey, writer)
}
