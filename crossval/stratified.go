package crossval

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// StratifiedKFold is a k-fold splitter that preserves the proportion of
// each outcome class across folds. Each class's rows are spread as
// evenly as possible, and total fold sizes differ by at most one.
type StratifiedKFold struct {
	K       int
	Shuffle bool
	Seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(k int, shuffle bool, seed int64) *StratifiedKFold {
	return &StratifiedKFold{K: k, Shuffle: shuffle, Seed: seed}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int {
	return skf.K
}

// Split generates stratified train/test indices for each fold.
// y's first column supplies the class label of each row.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	if X == nil || y == nil {
		return nil, errors.NewValueError("StratifiedKFold.Split", "nil matrix")
	}

	n, _ := X.Dims()
	ny, _ := y.Dims()
	if ny != n {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", n, ny, 0)
	}
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	if skf.K < 1 || skf.K > n {
		return nil, errors.NewValidationError("k", "must be in [1, n_samples]", skf.K)
	}

	classIndices := groupByClass(y, n)

	// Deterministic class iteration order: map traversal order must not
	// leak into fold contents.
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.Seed), uint64(skf.Seed)))
		for _, label := range labels {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.K)
	for f := range folds {
		folds[f].Label = f + 1
	}

	// Distribute each class across folds. The remainder rows rotate
	// their starting fold from class to class, so no single fold
	// accumulates every class's extra row and total fold sizes stay
	// within one of each other.
	rotation := 0
	for _, label := range labels {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.K
		remainder := nClass % skf.K

		pos := 0
		for f := 0; f < skf.K; f++ {
			size := foldSize
			if (f-rotation+skf.K)%skf.K < remainder {
				size++
			}
			for j := 0; j < size && pos < nClass; j++ {
				folds[f].TestIndices = append(folds[f].TestIndices, indices[pos])
				pos++
			}
		}
		rotation = (rotation + remainder) % skf.K
	}

	// Build train sets as the complement of each test set.
	for f := range folds {
		testSet := make(map[int]bool, len(folds[f].TestIndices))
		for _, idx := range folds[f].TestIndices {
			testSet[idx] = true
		}
		for i := 0; i < n; i++ {
			if !testSet[i] {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
		sort.Ints(folds[f].TestIndices)
	}

	return folds, nil
}

// TrainTestSplit partitions row indices [0, n) into a train and a test
// set, with testFraction of rows (rounded to nearest) held out. The
// split is a seeded pseudo-random permutation, so identical inputs
// reproduce identical splits.
func TrainTestSplit(n int, testFraction float64, seed int64) (trainIdx, testIdx []int, err error) {
	if n < 2 {
		return nil, nil, errors.NewValidationError("n", "must be at least 2", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValidationError("testFraction", "must be in (0, 1)", testFraction)
	}

	nTest := int(float64(n)*testFraction + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	perm := seededPerm(n, seed)

	testIdx = make([]int, nTest)
	copy(testIdx, perm[:nTest])
	trainIdx = make([]int, n-nTest)
	copy(trainIdx, perm[nTest:])

	sort.Ints(testIdx)
	sort.Ints(trainIdx)
	return trainIdx, testIdx, nil
}

// StratifiedTrainTestSplit is TrainTestSplit preserving the class
// proportions of y's first column in both subsets.
func StratifiedTrainTestSplit(y mat.Matrix, testFraction float64, seed int64) (trainIdx, testIdx []int, err error) {
	if y == nil {
		return nil, nil, errors.NewValueError("StratifiedTrainTestSplit", "nil matrix")
	}
	n, _ := y.Dims()
	if n < 2 {
		return nil, nil, errors.NewValidationError("n", "must be at least 2", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValidationError("testFraction", "must be in (0, 1)", testFraction)
	}

	classIndices := groupByClass(y, n)

	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	for _, label := range labels {
		indices := classIndices[label]
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(float64(len(indices))*testFraction + 0.5)
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}
		testIdx = append(testIdx, indices[:nTest]...)
		trainIdx = append(trainIdx, indices[nTest:]...)
	}

	sort.Ints(testIdx)
	sort.Ints(trainIdx)
	return trainIdx, testIdx, nil
}

// groupByClass buckets row indices by the value in y's first column.
func groupByClass(y mat.Matrix, n int) map[float64][]int {
	classIndices := make(map[float64][]int)
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}
	return classIndices
}
