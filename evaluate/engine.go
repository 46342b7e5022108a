package evaluate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
)

// Engine trains a fresh predictor from a training subset. The returned
// predictor is immutable and owned by the evaluation cell that created
// it; engines must not retain references to the training matrices.
type Engine interface {
	Fit(X, y mat.Matrix) (model.Predictor, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(X, y mat.Matrix) (model.Predictor, error)

// Fit implements Engine.
func (f EngineFunc) Fit(X, y mat.Matrix) (model.Predictor, error) {
	return f(X, y)
}

// FromEstimator adapts an estimator factory to the Engine interface.
// The factory is invoked once per (candidate, fold) cell, so each cell
// fits an independent instance and fitted state never crosses folds.
func FromEstimator(factory func() model.Estimator) Engine {
	return EngineFunc(func(X, y mat.Matrix) (model.Predictor, error) {
		est := factory()
		if err := est.Fit(X, y); err != nil {
			return nil, err
		}
		return est, nil
	})
}

// ProbaEngine wraps an engine whose predictors expose class
// probabilities, substituting PredictProba output for Predict so that
// probability-based scorers such as AUC see scores rather than labels.
func ProbaEngine(inner Engine) Engine {
	return EngineFunc(func(X, y mat.Matrix) (model.Predictor, error) {
		predictor, err := inner.Fit(X, y)
		if err != nil {
			return nil, err
		}
		proba, ok := predictor.(model.ProbaPredictor)
		if !ok {
			return predictor, nil
		}
		return probaPredictor{proba: proba}, nil
	})
}

// Scaled prepends a feature transformer to an engine. The transformer
// is fitted on the training subset only and the fitted transform is
// replayed on every matrix the predictor later sees, so validation
// rows never leak into the training statistics.
//
// The factory is invoked once per (candidate, fold) cell, matching the
// FromEstimator isolation guarantee.
func Scaled(factory func() model.Transformer, inner Engine) Engine {
	return EngineFunc(func(X, y mat.Matrix) (model.Predictor, error) {
		scaler := factory()
		scaled, err := scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		predictor, err := inner.Fit(scaled, y)
		if err != nil {
			return nil, err
		}
		return scaledPredictor{scaler: scaler, inner: predictor}, nil
	})
}

type scaledPredictor struct {
	scaler model.Transformer
	inner  model.Predictor
}

// Predict transforms the input with the fitted scaler before
// delegating to the wrapped predictor.
func (p scaledPredictor) Predict(X mat.Matrix) (mat.Matrix, error) {
	scaled, err := p.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.inner.Predict(scaled)
}

type probaPredictor struct {
	proba model.ProbaPredictor
}

// Predict returns the positive-class probability column.
func (p probaPredictor) Predict(X mat.Matrix) (mat.Matrix, error) {
	probs, err := p.proba.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, cols := probs.Dims()
	if cols == 1 {
		return probs, nil
	}
	// Multi-class probability output: the last column is the positive
	// class by the binary [P(0), P(1)] convention.
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, probs.At(i, cols-1))
	}
	return out, nil
}
