package try_test

import (
	"errors"
	"testing"

	"github.com/tonearm/labeld/pkg/utils/try"
)

type fataler struct {
	called bool
	args   []any
}

func (f *fataler) Fatal(args ...any) {
	f.called = true
	f.args = args
}

func TestTo(t *testing.T) {
	t.Run("ok side", func(t *testing.T) {
		either := try.To(42, nil)

		val, err := either.Get()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if val != 42 {
			t.Errorf("unexpected value: %d", val)
		}

		if actual := either.OrDefault(0); actual != 42 {
			t.Errorf("OrDefault overrode a valid value: %d", actual)
		}

		f := &fataler{}
		if actual := either.OrFatal(f); actual != 42 || f.called {
			t.Errorf("OrFatal misbehaved: value=%d, called=%v", actual, f.called)
		}
	})

	t.Run("ng side", func(t *testing.T) {
		expectedErr := errors.New("expected error")
		either := try.To(0, expectedErr)

		if _, err := either.Get(); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}

		if actual := either.OrDefault(99); actual != 99 {
			t.Errorf("OrDefault did not fall back: %d", actual)
		}

		f := &fataler{}
		either.OrFatal(f)
		if !f.called {
			t.Error("OrFatal did not call Fatal")
		}
	})
}
