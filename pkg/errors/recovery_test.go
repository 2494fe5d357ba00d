package errors

import (
	"fmt"
	"strings"
	"testing"
)

func panicking(value interface{}) (err error) {
	defer Recover(&err, "Transform")
	panic(value)
}

func TestRecover_WithPanic(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantMsg string
	}{
		{name: "string panic", value: "index out of range", wantMsg: "panic in Transform: index out of range"},
		{name: "int panic", value: 42, wantMsg: "panic in Transform: 42"},
		{name: "error panic", value: fmt.Errorf("mat: dimension mismatch"), wantMsg: "panic in Transform: mat: dimension mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := panicking(tt.value)
			if err == nil {
				t.Fatal("expected error from recovered panic")
			}

			var panicErr *PanicError
			if !As(err, &panicErr) {
				t.Fatalf("expected *PanicError, got %T", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !strings.Contains(panicErr.String(), "Stack trace:") {
				t.Error("String() should include the stack trace")
			}
		})
	}
}

func TestRecover_UnwrapsErrorPanic(t *testing.T) {
	cause := fmt.Errorf("singular")
	err := panicking(cause)
	if !Is(err, cause) {
		t.Error("recovered error should unwrap to the panic value")
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "Fit")
		return nil
	}
	if err := run(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	original := NewValueError("Fit", "bad input")
	run := func() (err error) {
		defer Recover(&err, "Fit")
		err = original
		panic("after error")
	}

	err := run()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "panic in Fit: after error") {
		t.Errorf("error should mention the panic, got %q", err.Error())
	}
	var valueErr *ValueError
	if !As(err, &valueErr) {
		t.Error("original error should remain in the chain")
	}
}
