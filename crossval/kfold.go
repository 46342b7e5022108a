// Package crossval provides deterministic data partitioning for
// cross-validation and candidate model comparison.
//
// All randomized operations take an explicit seed and use a PCG source,
// so the same seed and input order always reproduce the same partition.
// There is no global random state anywhere in the package.
package crossval

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Fold represents a single fold in cross-validation.
type Fold struct {
	// Label is the 1-based fold label in [1..k].
	Label int
	// TrainIndices are the row indices of the training subset.
	TrainIndices []int
	// TestIndices are the row indices of the held-out validation subset.
	TestIndices []int
}

// Assignment maps each row index to a fold label in [1..K].
// Every row has exactly one label and fold sizes differ by at most 1.
type Assignment struct {
	// Labels[i] is the fold label of row i.
	Labels []int
	// K is the number of folds.
	K int
}

// FoldSizes returns the number of rows carrying each label, indexed by
// label-1.
func (a *Assignment) FoldSizes() []int {
	sizes := make([]int, a.K)
	for _, label := range a.Labels {
		sizes[label-1]++
	}
	return sizes
}

// Folds expands the assignment into per-fold train/test index lists.
// Index lists are sorted ascending so extracted subsets preserve the
// dataset's row order.
func (a *Assignment) Folds() []Fold {
	folds := make([]Fold, a.K)
	for f := 0; f < a.K; f++ {
		folds[f].Label = f + 1
	}
	for i, label := range a.Labels {
		for f := 0; f < a.K; f++ {
			if f == label-1 {
				folds[f].TestIndices = append(folds[f].TestIndices, i)
			} else {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
	}
	for f := range folds {
		sort.Ints(folds[f].TestIndices)
		sort.Ints(folds[f].TrainIndices)
	}
	return folds
}

// Assign partitions n rows into k folds using a seeded pseudo-random
// permutation. Fold sizes differ by at most 1. The same n, k, and seed
// always produce the identical assignment.
//
// Returns a ValidationError when k < 1 or k > n.
func Assign(n, k int, seed int64) (*Assignment, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	if k < 1 || k > n {
		return nil, errors.NewValidationError("k", "must be in [1, n_samples]", k)
	}

	perm := seededPerm(n, seed)

	// The first n%k folds take one extra row.
	labels := make([]int, n)
	foldSize := n / k
	remainder := n % k

	pos := 0
	for f := 0; f < k; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		for j := 0; j < size; j++ {
			labels[perm[pos]] = f + 1
			pos++
		}
	}

	return &Assignment{Labels: labels, K: k}, nil
}

// Splitter generates train/test folds over a labeled dataset.
type Splitter interface {
	// Split returns one Fold per split. X supplies the row count; y is
	// consulted only by stratified splitters.
	Split(X, y mat.Matrix) ([]Fold, error)
	// NSplits returns the number of folds the splitter produces.
	NSplits() int
}

// KFold is a plain k-fold splitter with seeded shuffling.
type KFold struct {
	K       int
	Shuffle bool
	Seed    int64
}

// NewKFold creates a k-fold splitter. The fold count is validated
// against the dataset size at Split time.
func NewKFold(k int, shuffle bool, seed int64) *KFold {
	return &KFold{K: k, Shuffle: shuffle, Seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.K
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	if X == nil {
		return nil, errors.NewValueError("KFold.Split", "nil matrix")
	}
	n, _ := X.Dims()

	assignment, err := assignWithShuffle(n, kf.K, kf.Seed, kf.Shuffle)
	if err != nil {
		return nil, err
	}
	return assignment.Folds(), nil
}

func assignWithShuffle(n, k int, seed int64, shuffle bool) (*Assignment, error) {
	if shuffle {
		return Assign(n, k, seed)
	}

	// Without shuffling the rows keep their input order and the seed is unused.
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	if k < 1 || k > n {
		return nil, errors.NewValidationError("k", "must be in [1, n_samples]", k)
	}

	labels := make([]int, n)
	foldSize := n / k
	remainder := n % k
	pos := 0
	for f := 0; f < k; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		for j := 0; j < size; j++ {
			labels[pos] = f + 1
			pos++
		}
	}
	return &Assignment{Labels: labels, K: k}, nil
}

// seededPerm returns a deterministic pseudo-random permutation of [0, n).
func seededPerm(n int, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// ExtractSubset copies the rows named by indices out of X and y.
// The source matrices are never mutated.
func ExtractSubset(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	xSubset := mat.NewDense(rows, xCols, nil)
	ySubset := mat.NewDense(rows, yCols, nil)

	for i, idx := range sorted {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}

	return xSubset, ySubset
}
