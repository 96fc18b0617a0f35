package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *HydrateError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *HydrateError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// StorageFailed wraps a failure of the underlying key-value medium.
func StorageFailed(op, key string, err error) *HydrateError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("storage %s failed for key '%s'", op, key)).
		WithDetail("op", op).
		WithDetail("key", key)
}

// UnsupportedBackend creates an error for an unknown storage backend name
func UnsupportedBackend(name string) *HydrateError {
	return New(ErrCodeStorageUnsupported, fmt.Sprintf("unsupported storage backend '%s'", name)).
		WithDetail("backend", name)
}

// InvalidInput creates a user input validation error. The message is shown
// to the user as-is.
func InvalidInput(field, message string) *HydrateError {
	return New(ErrCodeInvalidInput, message).
		WithDetail("field", field)
}

// SchedulerFailed wraps a reminder scheduling failure
func SchedulerFailed(err error) *HydrateError {
	return Wrap(err, ErrCodeScheduler, "failed to schedule reminders")
}
