package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewFitError(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		fold      int
		cause     error
		wantMsg   string
	}{
		{
			name:      "with cause",
			candidate: "logit-all",
			fold:      3,
			cause:     fmt.Errorf("singular matrix"),
			wantMsg:   "modelselect: candidate 'logit-all' failed to fit on fold 3: singular matrix",
		},
		{
			name:      "first fold",
			candidate: "mean",
			fold:      1,
			cause:     fmt.Errorf("no data"),
			wantMsg:   "modelselect: candidate 'mean' failed to fit on fold 1: no data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFitError(tt.candidate, tt.fold, tt.cause)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			// FitError型にキャスト可能か確認
			var fitErr *FitError
			if !As(err, &fitErr) {
				t.Fatal("Error should be castable to *FitError")
			}
			if fitErr.Fold != tt.fold || fitErr.Candidate != tt.candidate {
				t.Errorf("FitError fields = (%q, %d), want (%q, %d)",
					fitErr.Candidate, fitErr.Fold, tt.candidate, tt.fold)
			}

			// Unwrapで原因エラーが取り出せるか確認
			if !Is(err, tt.cause) {
				t.Error("FitError should unwrap to its cause")
			}
		})
	}
}

func TestNewEmptyFoldError(t *testing.T) {
	err := NewEmptyFoldError(2, "validation")

	// 基本的なエラーメッセージの確認
	want := "modelselect: fold 2 has an empty validation subset"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// EmptyFoldError型にキャスト可能か確認
	var foldErr *EmptyFoldError
	if !As(err, &foldErr) {
		t.Error("Error should be castable to *EmptyFoldError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("k", "must be in [1, n_samples]", 0)

	// 基本的なエラーメッセージの確認
	want := "modelselect: validation failed for parameter 'k': must be in [1, n_samples] (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// ValidationError型にキャスト可能か確認
	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Accuracy", 10, 8, 0)

	// 基本的なエラーメッセージの確認
	want := "modelselect: Accuracy: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// DimensionError型にキャスト可能か確認
	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("MeanRegressor", "Predict")

	// 基本的なエラーメッセージの確認
	want := "modelselect: MeanRegressor: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// NotFittedError型にキャスト可能か確認
	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestWarningHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("AUC", "only one class present", 0.5)
	Warn(w)

	if len(captured) != 1 {
		t.Fatalf("expected 1 captured warning, got %d", len(captured))
	}
	if !strings.Contains(captured[0].Error(), "AUC") {
		t.Errorf("warning message = %q, want mention of AUC", captured[0].Error())
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewEmptyFoldError(1, "train")
	wrapped := Wrap(base, "evaluation aborted")

	var foldErr *EmptyFoldError
	if !As(wrapped, &foldErr) {
		t.Error("Wrapped error should still be castable to *EmptyFoldError")
	}
	if !strings.Contains(wrapped.Error(), "evaluation aborted") {
		t.Errorf("wrapped message = %q, want wrap prefix", wrapped.Error())
	}
}
