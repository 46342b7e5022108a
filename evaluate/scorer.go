package evaluate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/metrics"
)

// Scorer reduces a held-out fold's (predicted, actual) pairs to a
// scalar score. Implementations must be pure functions of their inputs.
type Scorer interface {
	// Name identifies the metric in reports and logs.
	Name() string
	// Score computes the metric over aligned truth/prediction vectors.
	Score(yTrue, yPred *mat.VecDense) (float64, error)
	// LowerIsBetter fixes the comparison convention for this metric.
	LowerIsBetter() bool
}

type metricScorer struct {
	name  string
	fn    func(yTrue, yPred *mat.VecDense) (float64, error)
	lower bool
}

func (s metricScorer) Name() string { return s.name }

func (s metricScorer) Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return s.fn(yTrue, yPred)
}

func (s metricScorer) LowerIsBetter() bool { return s.lower }

// NewScorer wraps an arbitrary metric function as a Scorer.
func NewScorer(name string, lowerIsBetter bool, fn func(yTrue, yPred *mat.VecDense) (float64, error)) Scorer {
	return metricScorer{name: name, fn: fn, lower: lowerIsBetter}
}

// RMSEScorer scores regression candidates by root-mean-square error.
func RMSEScorer() Scorer {
	return metricScorer{name: "rmse", fn: metrics.RMSE, lower: true}
}

// MAEScorer scores regression candidates by mean absolute error.
func MAEScorer() Scorer {
	return metricScorer{name: "mae", fn: metrics.MAE, lower: true}
}

// AccuracyScorer scores classification candidates by exact-match accuracy.
func AccuracyScorer() Scorer {
	return metricScorer{name: "accuracy", fn: metrics.Accuracy, lower: false}
}

// AUCScorer scores binary classifiers by rank-based area under the ROC
// curve; predictions are positive-class probabilities.
func AUCScorer() Scorer {
	return metricScorer{name: "auc", fn: metrics.AUC, lower: false}
}

// LogLossScorer scores binary classifiers by cross-entropy loss.
func LogLossScorer() Scorer {
	return metricScorer{name: "log_loss", fn: metrics.BinaryLogLoss, lower: true}
}
