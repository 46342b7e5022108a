// Package modelselect provides deterministic k-fold cross-validation
// and model comparison for Go, designed for reproducible offline
// evaluation pipelines.
//
// Given a dataset, a seeded fold assignment, and a set of candidate
// modeling strategies, modelselect fits every candidate on every
// training fold, scores it on the held-out fold, and aggregates the
// per-fold scores into a comparable report. The same seed always
// produces the same folds and the same scores.
//
// # Features
//
// - Seeded fold assignment: identical folds for identical seeds, no global RNG state
// - Stratified splitting: class proportions preserved across folds
// - Parallel evaluation grid: every (candidate, fold) cell runs independently
// - Fault isolation: a fitting failure poisons one candidate, never the run
// - Pluggable metrics: RMSE, MAE, accuracy, AUC, log loss
//
// # Installation
//
// Install modelselect using go get:
//
//	go get github.com/YuminosukeSato/modelselect
//
// # Quick Start
//
// Comparing two baseline regressors with 5-fold cross-validation:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/modelselect/baseline"
//	    "github.com/YuminosukeSato/modelselect/core/model"
//	    "github.com/YuminosukeSato/modelselect/crossval"
//	    "github.com/YuminosukeSato/modelselect/evaluate"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
//	    y := mat.NewDense(6, 1, []float64{2, 4, 6, 8, 10, 12})
//
//	    kf := crossval.NewKFold(3, true, 42)
//	    folds, err := kf.Split(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    candidates := []evaluate.Candidate{
//	        {Name: "mean", Engine: evaluate.FromEstimator(func() model.Estimator {
//	            return baseline.NewMeanRegressor()
//	        })},
//	        {Name: "zero", Engine: evaluate.FromEstimator(func() model.Estimator {
//	            return baseline.NewConstantRegressor(0)
//	        })},
//	    }
//
//	    report, err := evaluate.Evaluate(context.Background(), X, y, folds,
//	        candidates, evaluate.RMSEScorer(), nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(report.Best().Name)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - dataset: immutable tabular data with CSV loading and typed columns
//   - crossval: seeded fold assignment, k-fold and stratified splitters
//   - evaluate: the candidate × fold evaluation grid and reporting
//   - metrics: evaluation metrics (RMSE, MAE, R², accuracy, AUC, log loss)
//   - baseline: reference models used as comparison floors
//   - preprocessing: feature scalers for evaluation pipelines
//   - core/model: core interfaces and base types
//   - core/parallel: parallel processing utilities
//
// # Determinism
//
// All randomness flows from explicit seeds through PCG generators.
// Evaluation cells run concurrently but write to disjoint result
// slots, so a run's report is identical whether it executes on one
// goroutine or many.
package modelselect
