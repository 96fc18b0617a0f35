package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	icon := theme.IconError
	herr, isHydrate := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration file not found: %v\n", icon, herr.Details["path"])
		fmt.Fprintf(h.Out, "Run 'hydrate config path' to see which configuration file is in effect.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "%s %s\n", icon, herr.Message)
		if herr.Cause != nil {
			fmt.Fprintf(h.Out, "  %v\n", herr.Cause)
		}
		fmt.Fprintf(h.Out, "Run 'hydrate config schema' to see the accepted settings.\n")

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(h.Out, "%s %s\n", icon, herr.Message)

	case errors.ErrCodeStorageUnsupported:
		fmt.Fprintf(h.Out, "%s Unknown storage backend '%v'. Use file, sqlite, redis or memory.\n", icon, herr.Details["backend"])

	case errors.ErrCodeStorage:
		fmt.Fprintf(h.Out, "%s Could not reach storage: %s\n", icon, herr.Message)
		if herr.Cause != nil {
			fmt.Fprintf(h.Out, "  %v\n", herr.Cause)
		}

	case errors.ErrCodeScheduler:
		fmt.Fprintf(h.Out, "%s %s: %v\n", icon, herr.Message, herr.Cause)

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", icon, err)
	}

	if h.Verbose && isHydrate {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", herr.ToJSON())
	}
	return err
}
