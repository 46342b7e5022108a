package evaluate

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CandidateResult holds one candidate's per-fold scores and aggregates.
type CandidateResult struct {
	Name string

	// FoldScores has one entry per fold, valid only where the cell
	// completed; a candidate with any failure carries no aggregate.
	FoldScores []float64

	// Failures are the cell-scoped errors (*errors.FitError), one per
	// failed (candidate, fold) pair.
	Failures []error

	// Mean and Std summarize FoldScores when every cell completed.
	// Std is the sample standard deviation across folds.
	Mean float64
	Std  float64
}

// OK reports whether every fold of this candidate was scored.
func (r *CandidateResult) OK() bool {
	return len(r.Failures) == 0
}

// finalize computes the aggregate statistics once all cells settled.
func (r *CandidateResult) finalize() {
	if !r.OK() {
		return
	}
	r.Mean = stat.Mean(r.FoldScores, nil)
	if len(r.FoldScores) > 1 {
		r.Std = stat.StdDev(r.FoldScores, nil)
	}
}

// Report is the outcome of one evaluation run, ordered by the input
// candidate sequence.
type Report struct {
	Metric        string
	LowerIsBetter bool
	Candidates    []CandidateResult
}

// Best returns the successfully evaluated candidate with the best mean
// score under the metric's convention, or nil when every candidate
// failed.
func (r *Report) Best() *CandidateResult {
	var best *CandidateResult
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if !c.OK() {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if r.LowerIsBetter && c.Mean < best.Mean {
			best = c
		} else if !r.LowerIsBetter && c.Mean > best.Mean {
			best = c
		}
	}
	return best
}

// Failures collects every cell failure across all candidates.
func (r *Report) Failures() []error {
	var out []error
	for i := range r.Candidates {
		out = append(out, r.Candidates[i].Failures...)
	}
	return out
}

// String renders a compact per-candidate summary table.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "metric=%s\n", r.Metric)
	for i := range r.Candidates {
		c := &r.Candidates[i]
		if c.OK() {
			fmt.Fprintf(&b, "%-24s %.6f (+/- %.6f)\n", c.Name, c.Mean, c.Std)
		} else {
			fmt.Fprintf(&b, "%-24s failed (%d cells)\n", c.Name, len(c.Failures))
		}
	}
	return b.String()
}
