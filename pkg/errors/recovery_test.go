package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestRecover(t *testing.T) {
	t.Run("recovers panic into error", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "fitPanics")
			panic("bad hyperparameter")
		}

		err := fn()
		if err == nil {
			t.Fatal("expected error from recovered panic")
		}

		var panicErr *PanicError
		if !As(err, &panicErr) {
			t.Fatalf("expected *PanicError, got %T", err)
		}
		if panicErr.Operation != "fitPanics" {
			t.Errorf("Operation = %q, want fitPanics", panicErr.Operation)
		}
		if !strings.Contains(panicErr.StackTrace, "recovery_test.go") {
			t.Error("stack trace should contain test file name")
		}
	})

	t.Run("no panic leaves error untouched", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "noop")
			return nil
		}
		if err := fn(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("existing error is wrapped on panic", func(t *testing.T) {
		orig := fmt.Errorf("original failure")
		fn := func() (err error) {
			defer Recover(&err, "both")
			err = orig
			panic("after error")
		}

		err := fn()
		if err == nil {
			t.Fatal("expected error")
		}
		if !Is(err, orig) {
			t.Error("expected original error to remain unwrappable")
		}
	})
}

func TestSafeExecute(t *testing.T) {
	t.Run("returns fn error", func(t *testing.T) {
		want := fmt.Errorf("engine error")
		err := SafeExecute("fit", func() error { return want })
		if !Is(err, want) {
			t.Errorf("expected fn error, got %v", err)
		}
	})

	t.Run("converts panic to error", func(t *testing.T) {
		err := SafeExecute("fit", func() error { panic("boom") })
		var panicErr *PanicError
		if !As(err, &panicErr) {
			t.Fatalf("expected *PanicError, got %T", err)
		}
	})

	t.Run("success returns nil", func(t *testing.T) {
		if err := SafeExecute("fit", func() error { return nil }); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}
