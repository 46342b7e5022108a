// Package dataset provides the immutable tabular data model consumed by
// the splitters and the evaluator.
//
// A Dataset is an ordered sequence of rows sharing one schema of typed
// columns (numeric, categorical, or text). It is loaded once, never
// mutated afterwards, and converted to gonum matrices for model
// engines. Subsetting copies row views and leaves the source intact,
// so a dataset and its fold subsets are safe to share across
// goroutines without locking.
package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// ColumnType classifies the values a column holds.
type ColumnType int

const (
	// Numeric columns parse entirely as floating point values.
	Numeric ColumnType = iota
	// Categorical columns hold a small enumerated set of string values.
	Categorical
	// Text columns hold free-form strings and cannot become features.
	Text
)

// String returns the type name.
func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Column describes one field of the schema.
type Column struct {
	Name string
	Type ColumnType
}

// Dataset is an immutable table of typed columns.
type Dataset struct {
	cols    []Column
	numeric [][]float64 // parsed values, by column; nil for non-numeric columns
	raw     [][]string  // original string values, by column
	n       int
	target  string // designated target column name, empty when unset
}

// WithTarget returns a copy of the dataset with the named column
// designated as the prediction target. The receiver is unchanged.
func (d *Dataset) WithTarget(name string) (*Dataset, error) {
	if _, err := d.ColumnIndex(name); err != nil {
		return nil, err
	}
	out := *d
	out.target = name
	return &out, nil
}

// Target returns the designated target column name, or the empty
// string when none has been set.
func (d *Dataset) Target() string { return d.target }

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.n }

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int { return len(d.cols) }

// Columns returns a copy of the schema.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// ColumnIndex returns the index of the named column, or an error when
// the schema has no such column.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	for i, col := range d.cols {
		if col.Name == name {
			return i, nil
		}
	}
	return 0, errors.NewValueError("Dataset.ColumnIndex", "no column named '"+name+"'")
}

// Float returns the numeric value at (row, col). The column must be
// numeric.
func (d *Dataset) Float(row, col int) (float64, error) {
	if err := d.checkCell(row, col); err != nil {
		return 0, err
	}
	if d.cols[col].Type != Numeric {
		return 0, errors.NewValueError("Dataset.Float", "column '"+d.cols[col].Name+"' is not numeric")
	}
	return d.numeric[col][row], nil
}

// Raw returns the original string value at (row, col).
func (d *Dataset) Raw(row, col int) (string, error) {
	if err := d.checkCell(row, col); err != nil {
		return "", err
	}
	return d.raw[col][row], nil
}

func (d *Dataset) checkCell(row, col int) error {
	if row < 0 || row >= d.n {
		return errors.NewDimensionError("Dataset", d.n, row, 0)
	}
	if col < 0 || col >= len(d.cols) {
		return errors.NewDimensionError("Dataset", len(d.cols), col, 1)
	}
	return nil
}

// Subset returns a new Dataset holding copies of the given rows, in the
// given order. The receiver is not mutated.
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= d.n {
			return nil, errors.NewDimensionError("Dataset.Subset", d.n, idx, 0)
		}
	}

	sub := &Dataset{
		cols:    d.Columns(),
		numeric: make([][]float64, len(d.cols)),
		raw:     make([][]string, len(d.cols)),
		n:       len(indices),
		target:  d.target,
	}
	for c := range d.cols {
		sub.raw[c] = make([]string, len(indices))
		for i, idx := range indices {
			sub.raw[c][i] = d.raw[c][idx]
		}
		if d.numeric[c] != nil {
			sub.numeric[c] = make([]float64, len(indices))
			for i, idx := range indices {
				sub.numeric[c][i] = d.numeric[c][idx]
			}
		}
	}
	return sub, nil
}

// Matrices converts the dataset to gonum design matrices: X from the
// named feature columns and y from the target column. An empty target
// falls back to the column designated via WithTarget.
//
// Numeric columns pass through unchanged. Categorical columns are
// label-encoded as the index of the value in the sorted set of
// categories, with a DataConversionWarning raised per encoded column.
// Text columns are rejected.
func (d *Dataset) Matrices(target string, features []string) (X, y *mat.Dense, err error) {
	if d.n == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Dataset.Matrices")
	}

	if target == "" {
		if d.target == "" {
			return nil, nil, errors.NewValidationError("target", "no target column designated", target)
		}
		target = d.target
	}
	targetIdx, err := d.ColumnIndex(target)
	if err != nil {
		return nil, nil, err
	}

	if features == nil {
		// Default feature set: every column except the target.
		for _, col := range d.cols {
			if col.Name != target {
				features = append(features, col.Name)
			}
		}
	}
	if len(features) == 0 {
		return nil, nil, errors.NewValidationError("features", "must not be empty", features)
	}

	X = mat.NewDense(d.n, len(features), nil)
	for j, name := range features {
		idx, err := d.ColumnIndex(name)
		if err != nil {
			return nil, nil, err
		}
		if idx == targetIdx {
			return nil, nil, errors.NewValidationError("features", "must not include the target column", name)
		}
		values, err := d.columnAsFloats(idx)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < d.n; i++ {
			X.Set(i, j, values[i])
		}
	}

	yValues, err := d.columnAsFloats(targetIdx)
	if err != nil {
		return nil, nil, err
	}
	y = mat.NewDense(d.n, 1, nil)
	for i := 0; i < d.n; i++ {
		y.Set(i, 0, yValues[i])
	}

	return X, y, nil
}

// columnAsFloats returns the column's values in float form, label
// encoding categorical columns.
func (d *Dataset) columnAsFloats(col int) ([]float64, error) {
	switch d.cols[col].Type {
	case Numeric:
		return d.numeric[col], nil
	case Categorical:
		return d.encodeCategorical(col), nil
	default:
		return nil, errors.NewValueError("Dataset.Matrices",
			"text column '"+d.cols[col].Name+"' cannot be used as a feature or target")
	}
}

// encodeCategorical maps each value to its index in the sorted category
// set, so the encoding is deterministic for a given column content.
func (d *Dataset) encodeCategorical(col int) []float64 {
	seen := make(map[string]bool)
	for _, v := range d.raw[col] {
		seen[v] = true
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)

	codes := make(map[string]float64, len(cats))
	for i, v := range cats {
		codes[v] = float64(i)
	}

	errors.Warn(errors.NewDataConversionWarning(
		d.cols[col].Name, "categorical", "numeric", "label encoding for design matrix"))

	out := make([]float64, d.n)
	for i, v := range d.raw[col] {
		out[i] = codes[v]
	}
	return out
}
