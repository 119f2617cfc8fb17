package errors_test

import (
	"errors"
	"strings"
	"testing"

	xe "github.com/tonearm/labeld/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wrapped error unwraps to the original", func(t *testing.T) {
		base := errors.New("root cause")
		wrapped := xe.Wrap(base)

		if !errors.Is(wrapped, base) {
			t.Errorf("wrapped error does not unwrap to base: %v", wrapped)
		}
	})

	t.Run("message contains caller and cause", func(t *testing.T) {
		base := errors.New("root cause")
		wrapped := xe.Wrap(base)

		msg := wrapped.Error()
		if !strings.Contains(msg, "root cause") {
			t.Errorf("message does not contain the cause: %s", msg)
		}
		if !strings.Contains(msg, "errors_test") {
			t.Errorf("message does not contain caller file: %s", msg)
		}
	})

	t.Run("note is rendered in the message", func(t *testing.T) {
		base := errors.New("root cause")
		wrapped := xe.WrapWithNote("while testing", base)

		if !strings.Contains(wrapped.Error(), "while testing") {
			t.Errorf("note is missing: %s", wrapped.Error())
		}
	})
}
