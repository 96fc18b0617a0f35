package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestHydrateError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeInvalidInput, "goal must be positive")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("disk full")
	wrapped := Wrap(cause, ErrCodeStorage, "write failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeStorage) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeInvalidInput) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt.Errorf wrapping
	outer := fmt.Errorf("add cup: %w", wrapped)
	if GetCode(outer) != ErrCodeStorage {
		t.Errorf("GetCode through wrap = %s, want %s", GetCode(outer), ErrCodeStorage)
	}
	if got, ok := As(outer); !ok || got != wrapped {
		t.Error("As should find the wrapped HydrateError")
	}

	detailed := err.WithDetail("field", "goal").WithDetail("value", -1)
	if detailed.Details["field"] != "goal" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := StorageFailed("set", "water-goal", fmt.Errorf("boom"))
	if err.Code != ErrCodeStorage {
		t.Errorf("expected code %s, got %s", ErrCodeStorage, err.Code)
	}
	if err.Details["key"] != "water-goal" {
		t.Error("StorageFailed should include key detail")
	}

	err = InvalidInput("amount", "Please enter a positive number.")
	if err.Message != "Please enter a positive number." {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["field"] != "amount" {
		t.Error("InvalidInput should include field detail")
	}

	err = UnsupportedBackend("etcd")
	if err.Code != ErrCodeStorageUnsupported {
		t.Errorf("expected code %s, got %s", ErrCodeStorageUnsupported, err.Code)
	}
}

func TestCodeLookupThroughChains(t *testing.T) {
	storage := StorageFailed("get", "water-goal", fmt.Errorf("connection refused"))
	input := InvalidInput("amount", "Please enter a positive number.")

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", fmt.Errorf("disk full"), ""},
		{"direct", storage, ErrCodeStorage},
		{"wrapped twice", fmt.Errorf("snapshot: %w", fmt.Errorf("today: %w", storage)), ErrCodeStorage},
		{"joined", stderrors.Join(fmt.Errorf("flush log"), input), ErrCodeInvalidInput},
		{"outermost code wins", Wrap(storage, ErrCodeInternal, "reading totals"), ErrCodeInternal},
		{"typed nil", (*HydrateError)(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
			if Is(tt.err, "") {
				t.Error("Is with an empty code should never match")
			}
			_, ok := As(tt.err)
			if ok != (tt.want != "") {
				t.Errorf("As ok = %v", ok)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	err := Wrap(fmt.Errorf("connection refused"), ErrCodeStorage, "storage get failed")
	if got, want := err.Error(), "STORAGE: storage get failed (caused by: connection refused)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := New(ErrCodeInvalidInput, "Goal must be positive.").Error(), "INVALID_INPUT: Goal must be positive."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	js := InvalidInput("goal", "Goal must be positive.").ToJSON()
	for _, want := range []string{`"code": "INVALID_INPUT"`, `"field": "goal"`} {
		if !strings.Contains(js, want) {
			t.Errorf("ToJSON missing %s in %s", want, js)
		}
	}
}
