// Package log defines standard attribute keys for model selection operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in modelselect. Using these standard keys enables
// better log analysis, monitoring, and debugging of evaluation workflows.
//
// The keys follow a hierarchical naming convention (e.g., "cv.fold",
// "data.samples") to enable structured log analysis and filtering.

package log

// Evaluation Context
// These attributes identify the candidate, fold, and operation being performed.
const (
	// CandidateKey identifies the model candidate under evaluation.
	// Examples: "mean-baseline", "logit-all-features"
	CandidateKey = "cv.candidate"

	// FoldKey identifies the 1-based fold label of the held-out subset.
	FoldKey = "cv.fold"

	// FoldsKey records the total number of folds in the assignment.
	FoldsKey = "cv.folds"

	// MetricKey names the scoring function applied to held-out predictions.
	// Standard values: "rmse", "accuracy", "auc", "log_loss"
	MetricKey = "cv.metric"

	// ScoreKey records a scalar score produced for one (candidate, fold) cell.
	ScoreKey = "cv.score"

	// SeedKey records the random seed used for a fold assignment or split.
	// Essential for debugging and ensuring reproducible partitions.
	SeedKey = "cv.seed"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "split", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "crossval", "evaluate", "metrics", "dataset"
	ComponentKey = "ml.component"

	// ModelNameKey identifies the type of model engine.
	// Examples: "MeanRegressor", "MajorityClassifier"
	ModelNameKey = "model.name"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// TargetKey names the designated outcome column of a dataset.
	TargetKey = "data.target"

	// SourceKey records the origin of a loaded dataset (e.g. a CSV path).
	SourceKey = "data.source"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "FitError", "EmptyFoldError", "ValidationError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging functions.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard operations
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationSplit    = "split"
	OperationEvaluate = "evaluate"
	OperationLoad     = "load"

	// Standard phases
	PhaseTraining   = "training"
	PhaseValidation = "validation"
)
