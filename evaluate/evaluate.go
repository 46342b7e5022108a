// Package evaluate runs candidate model definitions through a
// cross-validation grid and aggregates per-fold scores.
//
// Each (candidate, fold) cell is an independent pure computation: fit
// the candidate's engine on the fold's training subset, predict on the
// held-out subset, score the predictions. Cells run in parallel and
// share nothing mutable; the dataset and fold assignment are read-only
// throughout. A failing cell is recorded and surfaced in the report but
// never aborts the other candidates.
package evaluate

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/crossval"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// Candidate is one model definition under comparison: a name, an
// optional feature-column selection, and the engine that fits it.
type Candidate struct {
	Name string
	// Columns selects feature columns of X by index; nil means all.
	Columns []int
	Engine  Engine
}

// Options tunes an evaluation run.
type Options struct {
	// Logger receives structured progress records. Nil uses the
	// package default.
	Logger log.Logger
	// Sequential disables per-cell parallelism. Results are identical
	// either way; this exists for debugging.
	Sequential bool
}

// Evaluate runs every candidate over every fold of the assignment and
// returns one report entry per candidate, in input order.
//
// The fold assignment must cover X and y: training and validation
// subsets of every fold must be non-empty, otherwise an EmptyFoldError
// aborts the run before any fitting begins.
func Evaluate(ctx context.Context, X, y mat.Matrix, folds []crossval.Fold, candidates []Candidate, scorer Scorer, opts *Options) (*Report, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("evaluate")
	}

	if X == nil || y == nil {
		return nil, errors.NewValueError("Evaluate", "nil data matrix")
	}
	if len(folds) == 0 {
		return nil, errors.NewValidationError("folds", "must not be empty", len(folds))
	}
	if len(candidates) == 0 {
		return nil, errors.NewValidationError("candidates", "must not be empty", len(candidates))
	}
	if scorer == nil {
		return nil, errors.NewValueError("Evaluate", "nil scorer")
	}

	n, _ := X.Dims()
	ny, _ := y.Dims()
	if ny != n {
		return nil, errors.NewDimensionError("Evaluate", n, ny, 0)
	}

	// Degenerate partitions are a configuration error: reject them
	// before any engine runs.
	for _, fold := range folds {
		if len(fold.TrainIndices) == 0 {
			return nil, errors.NewEmptyFoldError(fold.Label, "train")
		}
		if len(fold.TestIndices) == 0 {
			return nil, errors.NewEmptyFoldError(fold.Label, "validation")
		}
	}

	logger.Info("evaluation started",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, n,
		log.FoldsKey, len(folds),
		"candidates", len(candidates),
		log.MetricKey, scorer.Name(),
	)

	start := time.Now()
	report := &Report{
		Metric:        scorer.Name(),
		LowerIsBetter: scorer.LowerIsBetter(),
		Candidates:    make([]CandidateResult, len(candidates)),
	}

	// One goroutine per candidate; each candidate fans out over its
	// folds. Every cell writes only to its own slot.
	done := make(chan int, len(candidates))
	for ci := range candidates {
		run := func(ci int) {
			report.Candidates[ci] = evaluateCandidate(ctx, X, y, folds, candidates[ci], scorer, logger)
			done <- ci
		}
		if opts.Sequential {
			run(ci)
		} else {
			go run(ci)
		}
	}
	for range candidates {
		<-done
	}

	for i := range report.Candidates {
		report.Candidates[i].finalize()
	}

	logger.Info("evaluation finished",
		log.OperationKey, log.OperationEvaluate,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return report, nil
}

// evaluateCandidate runs one candidate over all folds in parallel.
func evaluateCandidate(ctx context.Context, X, y mat.Matrix, folds []crossval.Fold, cand Candidate, scorer Scorer, logger log.Logger) CandidateResult {
	result := CandidateResult{
		Name:       cand.Name,
		FoldScores: make([]float64, len(folds)),
	}
	cellErrs := make([]error, len(folds))

	done := make(chan struct{})
	for fi := range folds {
		go func(fi int) {
			defer func() { done <- struct{}{} }()
			score, err := evaluateCell(ctx, X, y, folds[fi], cand, scorer)
			if err != nil {
				cellErrs[fi] = err
				return
			}
			result.FoldScores[fi] = score

			logger.Debug("fold scored",
				log.CandidateKey, cand.Name,
				log.FoldKey, folds[fi].Label,
				log.MetricKey, scorer.Name(),
				log.ScoreKey, score,
			)
		}(fi)
	}
	for range folds {
		<-done
	}

	for fi, err := range cellErrs {
		if err != nil {
			result.Failures = append(result.Failures, err)
			logger.Error("candidate cell failed",
				err,
				log.CandidateKey, cand.Name,
				log.FoldKey, folds[fi].Label,
			)
		}
	}

	return result
}

// evaluateCell fits, predicts, and scores one (candidate, fold) pair.
func evaluateCell(ctx context.Context, X, y mat.Matrix, fold crossval.Fold, cand Candidate, scorer Scorer) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.NewFitError(cand.Name, fold.Label, err)
	}

	features := selectColumns(X, cand.Columns)

	trainX, trainY := crossval.ExtractSubset(features, y, fold.TrainIndices)
	testX, testY := crossval.ExtractSubset(features, y, fold.TestIndices)

	// A panicking engine becomes a fit failure for this cell only.
	var predictor model.Predictor
	fitErr := errors.SafeExecute("candidate fit", func() error {
		p, err := cand.Engine.Fit(trainX, trainY)
		if err != nil {
			return err
		}
		predictor = p
		return nil
	})
	if fitErr != nil {
		return 0, errors.NewFitError(cand.Name, fold.Label, fitErr)
	}

	pred, err := predictor.Predict(testX)
	if err != nil {
		return 0, errors.NewFitError(cand.Name, fold.Label, err)
	}

	yTrueVec, yPredVec, err := pairVectors(testY, pred)
	if err != nil {
		return 0, errors.NewFitError(cand.Name, fold.Label, err)
	}

	score, err := scorer.Score(yTrueVec, yPredVec)
	if err != nil {
		return 0, errors.NewFitError(cand.Name, fold.Label, err)
	}
	return score, nil
}

// selectColumns returns a read-only view of X restricted to the given
// feature columns; nil selects all columns.
func selectColumns(X mat.Matrix, columns []int) mat.Matrix {
	if columns == nil {
		return X
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, len(columns), nil)
	for i := 0; i < rows; i++ {
		for j, col := range columns {
			out.Set(i, j, X.At(i, col))
		}
	}
	return out
}

// pairVectors aligns truth and prediction matrices as column vectors.
func pairVectors(yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	rTrue, _ := yTrue.Dims()
	rPred, _ := yPred.Dims()
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError("Evaluate.score", rTrue, rPred, 0)
	}

	trueVec := mat.NewVecDense(rTrue, nil)
	predVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		trueVec.SetVec(i, yTrue.At(i, 0))
		predVec.SetVec(i, yPred.At(i, 0))
	}
	return trueVec, predVec, nil
}
