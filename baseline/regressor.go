// Package baseline は比較の基準となる自明な予測モデルを提供します。
// 平均値回帰や多数決分類は、交差検証で候補モデルと並べて評価することで
// 候補が偶然以上の性能を持つかを判断する基準線になります。
package baseline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// MeanRegressor は訓練データの目的変数の平均値を常に予測する回帰モデル
type MeanRegressor struct {
	model.BaseEstimator
	Mean float64 // 学習された平均値
}

// NewMeanRegressor は新しいMeanRegressorを作成する
func NewMeanRegressor() *MeanRegressor {
	return &MeanRegressor{}
}

// Fit は目的変数の平均値を学習する
func (m *MeanRegressor) Fit(_, y mat.Matrix) error {
	if y == nil {
		return errors.NewValueError("MeanRegressor.Fit", "nil target")
	}

	r, c := y.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MeanRegressor.Fit")
	}

	var sum float64
	for i := 0; i < r; i++ {
		sum += y.At(i, 0)
	}
	m.Mean = sum / float64(r)

	m.SetFitted()
	return nil
}

// Predict はすべての入力に対して学習済みの平均値を返す
func (m *MeanRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MeanRegressor", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError("MeanRegressor.Predict", "nil input")
	}

	r, _ := X.Dims()
	predictions := mat.NewDense(r, 1, nil)

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			predictions.Set(i, 0, m.Mean)
		}
	})

	return predictions, nil
}

// ConstantRegressor は構築時に指定された定数を常に予測する回帰モデル
type ConstantRegressor struct {
	model.BaseEstimator
	Value float64
}

// NewConstantRegressor は新しいConstantRegressorを作成する
func NewConstantRegressor(value float64) *ConstantRegressor {
	return &ConstantRegressor{Value: value}
}

// Fit は学習データを検証するのみで、予測値は構築時の定数のまま変わらない
func (c *ConstantRegressor) Fit(_, y mat.Matrix) error {
	if y == nil {
		return errors.NewValueError("ConstantRegressor.Fit", "nil target")
	}
	r, cols := y.Dims()
	if r == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, "ConstantRegressor.Fit")
	}

	c.SetFitted()
	return nil
}

// Predict はすべての入力に対して定数を返す
func (c *ConstantRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("ConstantRegressor", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError("ConstantRegressor.Predict", "nil input")
	}

	r, _ := X.Dims()
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, c.Value)
	}
	return predictions, nil
}
