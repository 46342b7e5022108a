package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect predictions",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  0.0,
		},
		{
			name:  "Constant offset",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2, 3, 4, 5},
			want:  1.0,
		},
		{
			name:  "Mixed residuals",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0.0, 2, 8},
			want:  0.375,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := MSE(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "Zero iff all residuals are zero",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  0.0,
		},
		{
			name:  "Square root of MSE",
			yTrue: []float64{0, 0, 0, 0},
			yPred: []float64{2, 2, 2, 2},
			want:  2.0,
		},
		{
			name:  "Single residual",
			yTrue: []float64{5},
			yPred: []float64{2},
			want:  3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := RMSE(yTrue, yPred)
			if err != nil {
				t.Fatalf("RMSE() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RMSE() = %v, want %v", got, tt.want)
			}
			if got < 0 {
				t.Error("RMSE must be non-negative")
			}
		})
	}
}

func TestRMSENonZeroForNonZeroResidual(t *testing.T) {
	// RMSE = 0 はすべての残差が0の場合に限る
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(3, []float64{1, 2, 3.0001})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if got <= 0 {
		t.Errorf("RMSE() = %v, want > 0 for non-zero residual", got)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{3, -0.5, 2, 7})
	yPred := mat.NewVecDense(4, []float64{2.5, 0.0, 2, 8})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("MAE() = %v, want 0.5", got)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect fit",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  1.0,
		},
		{
			name:  "Mean prediction gives zero",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{2, 2, 2},
			want:  0.0,
		},
		{
			name:    "No variance in yTrue",
			yTrue:   []float64{2, 2, 2},
			yPred:   []float64{1, 2, 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := R2Score(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{1, 2, 3})

	got, err := RMSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSEMatrix() error = %v", err)
	}
	if got != 0 {
		t.Errorf("RMSEMatrix() = %v, want 0", got)
	}

	if _, err := RMSEMatrix(&mat.Dense{}, &mat.Dense{}); err == nil {
		t.Error("expected error for empty matrix")
	}
}
