// Package errors carries hydrate's coded errors. Callers branch on the code
// with Is or GetCode; the CLI maps codes to messages for the user.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrorCode classifies a HydrateError.
type ErrorCode string

// Configuration.
const (
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"
)

// Storage media.
const (
	ErrCodeStorage            ErrorCode = "STORAGE"
	ErrCodeStorageUnsupported ErrorCode = "STORAGE_UNSUPPORTED"
)

// Reminders, user input and everything else.
const (
	ErrCodeScheduler    ErrorCode = "SCHEDULER"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// HydrateError is an error with a code, a user-facing message and optional
// structured details. Cause is kept for Unwrap but not serialized.
type HydrateError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *HydrateError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *HydrateError) Unwrap() error {
	return e.Cause
}

// WithDetail records key=value on e and returns e for chaining.
func (e *HydrateError) WithDetail(key string, value any) *HydrateError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// ToJSON renders e for --verbose output.
func (e *HydrateError) ToJSON() string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"code": %q, "message": %q}`, e.Code, e.Message)
	}
	return string(data)
}

func New(code ErrorCode, message string) *HydrateError {
	return &HydrateError{Code: code, Message: message}
}

// Wrap attaches a code and message to err. err may be nil.
func Wrap(err error, code ErrorCode, message string) *HydrateError {
	return &HydrateError{Code: code, Message: message, Cause: err}
}

// As returns the outermost HydrateError in err's chain.
func As(err error) (*HydrateError, bool) {
	var herr *HydrateError
	if stderrors.As(err, &herr) && herr != nil {
		return herr, true
	}
	return nil, false
}

// GetCode returns the code of the outermost HydrateError in err's chain, or
// "" if there is none.
func GetCode(err error) ErrorCode {
	if herr, ok := As(err); ok {
		return herr.Code
	}
	return ""
}

// Is reports whether the outermost HydrateError in err's chain has code.
func Is(err error, code ErrorCode) bool {
	return code != "" && GetCode(err) == code
}
