package evaluate

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/baseline"
	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/crossval"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

func regressionData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%7))
		y.Set(i, 0, float64(i)*0.5+3)
	}
	return X, y
}

func testFolds(t *testing.T, n, k int) []crossval.Fold {
	t.Helper()
	a, err := crossval.Assign(n, k, 42)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	return a.Folds()
}

func meanEngine() Engine {
	return FromEstimator(func() model.Estimator { return baseline.NewMeanRegressor() })
}

func failingEngine(msg string) Engine {
	return EngineFunc(func(_, _ mat.Matrix) (model.Predictor, error) {
		return nil, errors.New(msg)
	})
}

func TestEvaluateConstantCandidatesScoreIdentically(t *testing.T) {
	X, y := regressionData(50)
	folds := testFolds(t, 50, 5)

	// グローバル平均を常に返す2つの定数予測モデルは同一のRMSEになる
	var mean float64
	for i := 0; i < 50; i++ {
		mean += y.At(i, 0)
	}
	mean /= 50

	candidates := []Candidate{
		{Name: "constant-a", Engine: FromEstimator(func() model.Estimator {
			return baseline.NewConstantRegressor(mean)
		})},
		{Name: "constant-b", Engine: FromEstimator(func() model.Estimator {
			return baseline.NewConstantRegressor(mean)
		})},
	}

	report, err := Evaluate(context.Background(), X, y, folds, candidates, RMSEScorer(), nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	a, b := report.Candidates[0], report.Candidates[1]
	if !a.OK() || !b.OK() {
		t.Fatalf("expected both candidates to succeed: %v, %v", a.Failures, b.Failures)
	}
	for f := range a.FoldScores {
		if math.Abs(a.FoldScores[f]-b.FoldScores[f]) > 1e-12 {
			t.Errorf("fold %d scores differ: %v vs %v", f+1, a.FoldScores[f], b.FoldScores[f])
		}
	}
	if math.Abs(a.Mean-b.Mean) > 1e-12 {
		t.Errorf("means differ: %v vs %v", a.Mean, b.Mean)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	X, y := regressionData(40)

	run := func() *Report {
		folds := testFolds(t, 40, 4)
		report, err := Evaluate(context.Background(), X, y, folds,
			[]Candidate{{Name: "mean", Engine: meanEngine()}}, RMSEScorer(), nil)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		return report
	}

	r1, r2 := run(), run()
	for f := range r1.Candidates[0].FoldScores {
		if r1.Candidates[0].FoldScores[f] != r2.Candidates[0].FoldScores[f] {
			t.Fatal("same seed produced different scores")
		}
	}
}

func TestEvaluateFailingCandidateIsIsolated(t *testing.T) {
	X, y := regressionData(30)
	folds := testFolds(t, 30, 5)

	logger, _ := log.NewTestLogger(log.LevelDebug)
	candidates := []Candidate{
		{Name: "always-fails", Engine: failingEngine("synthetic failure")},
		{Name: "mean", Engine: meanEngine()},
	}

	report, err := Evaluate(context.Background(), X, y, folds, candidates, RMSEScorer(), &Options{Logger: logger})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// 失敗した候補は5つの (candidate, fold) セルすべてでFitErrorを報告する
	failed := report.Candidates[0]
	if failed.OK() {
		t.Fatal("expected failures for always-fails candidate")
	}
	if len(failed.Failures) != 5 {
		t.Errorf("failure count = %d, want 5", len(failed.Failures))
	}
	for _, cellErr := range failed.Failures {
		var fitErr *errors.FitError
		if !errors.As(cellErr, &fitErr) {
			t.Fatalf("expected FitError, got %T", cellErr)
		}
		if fitErr.Candidate != "always-fails" {
			t.Errorf("FitError candidate = %q, want always-fails", fitErr.Candidate)
		}
		if fitErr.Fold < 1 || fitErr.Fold > 5 {
			t.Errorf("FitError fold = %d, want in [1, 5]", fitErr.Fold)
		}
	}

	// 他の候補は影響を受けずに完了する
	ok := report.Candidates[1]
	if !ok.OK() {
		t.Fatalf("expected mean candidate to succeed: %v", ok.Failures)
	}
	if len(ok.FoldScores) != 5 {
		t.Errorf("fold scores = %d, want 5", len(ok.FoldScores))
	}

	if best := report.Best(); best == nil || best.Name != "mean" {
		t.Errorf("Best() = %v, want mean", best)
	}
	if !logger.Contains("candidate cell failed") {
		t.Error("expected failure log record")
	}
}

func TestEvaluatePanickingEngineBecomesFitError(t *testing.T) {
	X, y := regressionData(20)
	folds := testFolds(t, 20, 4)

	panicking := EngineFunc(func(_, _ mat.Matrix) (model.Predictor, error) {
		panic("engine exploded")
	})

	report, err := Evaluate(context.Background(), X, y, folds,
		[]Candidate{{Name: "panics", Engine: panicking}}, RMSEScorer(), nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	failed := report.Candidates[0]
	if len(failed.Failures) != 4 {
		t.Fatalf("failure count = %d, want 4", len(failed.Failures))
	}
	var fitErr *errors.FitError
	if !errors.As(failed.Failures[0], &fitErr) {
		t.Fatalf("expected FitError, got %T", failed.Failures[0])
	}
	var panicErr *errors.PanicError
	if !errors.As(failed.Failures[0], &panicErr) {
		t.Error("expected recovered PanicError inside FitError")
	}
}

func TestEvaluateEmptyFoldAborts(t *testing.T) {
	X, y := regressionData(10)

	folds := []crossval.Fold{
		{Label: 1, TrainIndices: []int{0, 1, 2, 3, 4}, TestIndices: []int{5, 6, 7, 8, 9}},
		{Label: 2, TrainIndices: []int{5, 6, 7, 8, 9}, TestIndices: nil},
	}

	_, err := Evaluate(context.Background(), X, y, folds,
		[]Candidate{{Name: "mean", Engine: meanEngine()}}, RMSEScorer(), nil)
	if err == nil {
		t.Fatal("expected EmptyFoldError")
	}
	var foldErr *errors.EmptyFoldError
	if !errors.As(err, &foldErr) {
		t.Fatalf("expected EmptyFoldError, got %T", err)
	}
	if foldErr.Fold != 2 || foldErr.Side != "validation" {
		t.Errorf("EmptyFoldError = %+v, want fold 2 validation", foldErr)
	}
}

func TestEvaluateInvalidInputs(t *testing.T) {
	X, y := regressionData(10)
	folds := testFolds(t, 10, 2)
	cand := []Candidate{{Name: "mean", Engine: meanEngine()}}

	if _, err := Evaluate(context.Background(), nil, y, folds, cand, RMSEScorer(), nil); err == nil {
		t.Error("expected error for nil X")
	}
	if _, err := Evaluate(context.Background(), X, y, nil, cand, RMSEScorer(), nil); err == nil {
		t.Error("expected error for empty folds")
	}
	if _, err := Evaluate(context.Background(), X, y, folds, nil, RMSEScorer(), nil); err == nil {
		t.Error("expected error for empty candidates")
	}
	if _, err := Evaluate(context.Background(), X, y, folds, cand, nil, nil); err == nil {
		t.Error("expected error for nil scorer")
	}
	shortY := mat.NewDense(5, 1, nil)
	if _, err := Evaluate(context.Background(), X, shortY, folds, cand, RMSEScorer(), nil); err == nil {
		t.Error("expected error for row count mismatch")
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	X, y := regressionData(20)
	folds := testFolds(t, 20, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Evaluate(ctx, X, y, folds,
		[]Candidate{{Name: "mean", Engine: meanEngine()}}, RMSEScorer(), nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	failed := report.Candidates[0]
	if failed.OK() {
		t.Fatal("expected cancellation failures")
	}
	if !errors.Is(failed.Failures[0], context.Canceled) {
		t.Errorf("expected context.Canceled cause, got %v", failed.Failures[0])
	}
}

func TestEvaluateColumnSelection(t *testing.T) {
	X, y := regressionData(20)
	folds := testFolds(t, 20, 4)

	var sawCols atomic.Int64
	probe := EngineFunc(func(trainX, trainY mat.Matrix) (model.Predictor, error) {
		_, c := trainX.Dims()
		sawCols.Store(int64(c))
		m := baseline.NewMeanRegressor()
		if err := m.Fit(trainX, trainY); err != nil {
			return nil, err
		}
		return m, nil
	})

	_, err := Evaluate(context.Background(), X, y, folds,
		[]Candidate{{Name: "one-feature", Columns: []int{1}, Engine: probe}},
		RMSEScorer(), &Options{Sequential: true})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got := sawCols.Load(); got != 1 {
		t.Errorf("engine saw %d columns, want 1", got)
	}
}

func TestEvaluateAUCWithPriorProbabilities(t *testing.T) {
	// 定数確率の予測はAUC=0.5（判別力なし）
	n := 40
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		y.Set(i, 0, float64(i%2))
	}

	folds, err := crossval.NewStratifiedKFold(4, true, 42).Split(X, y)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	prior := ProbaEngine(FromEstimator(func() model.Estimator {
		return baseline.NewMajorityClassifier()
	}))

	report, err := Evaluate(context.Background(), X, y, folds,
		[]Candidate{{Name: "prior", Engine: prior}}, AUCScorer(), nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	result := report.Candidates[0]
	if !result.OK() {
		t.Fatalf("expected success: %v", result.Failures)
	}
	if math.Abs(result.Mean-0.5) > 1e-9 {
		t.Errorf("AUC mean = %v, want 0.5", result.Mean)
	}
}

func TestReportBestConvention(t *testing.T) {
	report := &Report{
		Metric:        "accuracy",
		LowerIsBetter: false,
		Candidates: []CandidateResult{
			{Name: "a", Mean: 0.7},
			{Name: "b", Mean: 0.9},
		},
	}
	if best := report.Best(); best == nil || best.Name != "b" {
		t.Errorf("Best() = %v, want b for higher-is-better", best)
	}

	report.LowerIsBetter = true
	if best := report.Best(); best == nil || best.Name != "a" {
		t.Errorf("Best() = %v, want a for lower-is-better", best)
	}
}
