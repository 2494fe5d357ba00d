package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "buildingml: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "buildingml: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewMissingColumnsError(t *testing.T) {
	err := NewMissingColumnsError("Fit", []string{"Region Code", "Building Age"})

	want := "buildingml: Fit: missing columns in the dataset: ['Region Code', 'Building Age']"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var missing *MissingColumnsError
	if !As(err, &missing) {
		t.Fatal("Error should be castable to *MissingColumnsError")
	}
	if len(missing.Columns) != 2 {
		t.Errorf("expected every missing column to be reported, got %v", missing.Columns)
	}
}

func TestNewDimensionMismatchError(t *testing.T) {
	err := NewDimensionMismatchError("Predict", 3, 5, 1)

	want := "buildingml: Predict: dimension mismatch on axis 1 (features). Expected 3, got 5"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionMismatchError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionMismatchError")
	}
}

func TestNewInvalidMethodError(t *testing.T) {
	err := NewInvalidMethodError("fill method", "average", []string{"mean", "median", "mode"})

	want := "buildingml: invalid fill method 'average'. Please choose 'mean', 'median', 'mode'"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewDateParseError(t *testing.T) {
	err := NewDateParseError("Construction Date", "%d-%b-%Y", 2, 10, []string{"soon", "n/a"})

	var parseErr *DateParseError
	if !As(err, &parseErr) {
		t.Fatal("Error should be castable to *DateParseError")
	}
	if parseErr.Failed != 2 || parseErr.Total != 10 {
		t.Errorf("unexpected counts: failed=%d total=%d", parseErr.Failed, parseErr.Total)
	}
	if !strings.Contains(err.Error(), `"soon"`) {
		t.Errorf("message should quote sample values, got %q", err.Error())
	}
}

func TestLengthMismatchError(t *testing.T) {
	err := NewLengthMismatchError("Evaluate", 4, 3)
	var lenErr *LengthMismatchError
	if !As(err, &lenErr) {
		t.Fatal("Error should be castable to *LengthMismatchError")
	}
	if lenErr.Expected != 4 || lenErr.Got != 3 {
		t.Errorf("unexpected lengths: %+v", lenErr)
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Error().Object("detail", &ColumnTypeError{
		Op: "FillMissing", Column: "Region Code", Expected: "numeric", Got: "categorical",
	}).Msg("fill failed")

	out := buf.String()
	for _, want := range []string{`"column":"Region Code"`, `"type":"ColumnTypeError"`, `"expected":"numeric"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s missing %s", out, want)
		}
	}
}

func TestWarnUsesZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewUndefinedMetricWarning("r2", "zero variance", math.NaN()))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got []error
	prev := warningHandler
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(prev)

	Warn(NewDataConversionWarning("Region Code", "no present values"))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "fit transformer")
	if !Is(wrapped, ErrEmptyData) {
		t.Error("wrapped error should match ErrEmptyData")
	}
	if !strings.Contains(wrapped.Error(), "fit transformer") {
		t.Errorf("wrapped message missing context: %q", wrapped.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("ols_fit", []float64{1, 2, 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("ols_fit", []float64{1, math.NaN(), math.Inf(1)})
	var instability *NumericalInstabilityError
	if !As(err, &instability) {
		t.Fatalf("expected *NumericalInstabilityError, got %v", err)
	}
	if len(instability.Values) != 2 {
		t.Errorf("expected 2 offending values, got %v", instability.Values)
	}
}
