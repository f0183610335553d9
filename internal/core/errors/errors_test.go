package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "component file not found")
		if err.Error() != "[NOT_FOUND] component file not found" {
			t.Errorf("expected [NOT_FOUND] component file not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("permission denied")
		err := Wrap(original, CodeUnreadable, "read source")
		expected := "[UNREADABLE] read source: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to the original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "depth must be >= 1")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("analyze: %w", New(CodeNotFound, "missing"))
		if !IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
		if CodeOf(err) != CodeNotFound {
			t.Errorf("expected CodeOf NOT_FOUND, got %q", CodeOf(err))
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeNotFound, "missing"), CtxPath, "src/App.tsx")
		if !strings.Contains(err.Error(), "src/App.tsx") {
			t.Errorf("expected context in message, got %s", err.Error())
		}

		plain := AddContext(errors.New("boom"), CtxOperation, "render")
		if !IsCode(plain, CodeInternal) {
			t.Error("expected plain errors to be promoted to CodeInternal")
		}
	})

	t.Run("CodeOfPlain", func(t *testing.T) {
		if CodeOf(errors.New("plain")) != "" {
			t.Error("expected empty code for plain error")
		}
	})
}
