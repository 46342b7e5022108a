package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// maxCategories is the largest distinct-value count a non-numeric
// column may have and still be typed Categorical rather than Text.
const maxCategories = 32

// ReadCSV parses a CSV stream into a Dataset. The first record is the
// header and provides the column names.
//
// Column types are inferred deterministically from the data: a column
// whose every value parses as a float is Numeric, a remaining column
// with at most 32 distinct values is Categorical, anything else is
// Text. Empty numeric cells are not tolerated; a value that fails to
// parse demotes the whole column to Categorical or Text.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: CSV has no header")
	}

	header := records[0]
	rows := records[1:]
	if len(header) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: CSV header has no columns")
	}

	d := &Dataset{
		cols:    make([]Column, len(header)),
		numeric: make([][]float64, len(header)),
		raw:     make([][]string, len(header)),
		n:       len(rows),
	}

	for c, name := range header {
		d.cols[c] = Column{Name: name}
		d.raw[c] = make([]string, len(rows))
		for i, rec := range rows {
			d.raw[c][i] = rec[c]
		}
		d.cols[c].Type, d.numeric[c] = inferType(d.raw[c])
	}

	return d, nil
}

// OpenCSV loads a Dataset from a CSV file on disk.
func OpenCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: failed to open %s", path)
	}
	defer f.Close()

	d, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("dataset")
	logger.Info("dataset loaded",
		log.SourceKey, path,
		log.SamplesKey, d.NumRows(),
		log.FeaturesKey, d.NumCols(),
	)
	return d, nil
}

// inferType types a column from its values and returns the parsed
// floats when the column is numeric.
func inferType(values []string) (ColumnType, []float64) {
	parsed := make([]float64, len(values))
	numeric := true
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			break
		}
		parsed[i] = f
	}
	if numeric && len(values) > 0 {
		return Numeric, parsed
	}

	distinct := make(map[string]bool)
	for _, v := range values {
		distinct[v] = true
		if len(distinct) > maxCategories {
			return Text, nil
		}
	}
	return Categorical, nil
}
