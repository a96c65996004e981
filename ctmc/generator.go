// SPDX-License-Identifier: MIT
// Package ctmc: generator-matrix construction.

package ctmc

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/ctmcfit/matrix"
)

const opGenerator = "GeneratorMatrix"

// GeneratorMatrix converts counts and dwell times into transition rates.
//
// Implementation:
//   - Stage 1: copy the off-diagonal of transcount as float64. Tolerant: a
//     non-zero diagonal count is dropped with an ErrNonZeroDiagonal warning.
//   - Stage 2: diagonal = −(off-diagonal row sum).
//   - Stage 3: divide row i by statetime[i] when statetime[i] ≥ toltime.
//     Otherwise Strict divides anyway, leaving NaN/±Inf in the row, while
//     Tolerant leaves the row zero with an ErrShortStateTime warning.
//
// The returned Dense accepts non-finite values under Strict so a degenerate
// row stays visible; matrix.Expm then rejects it.
//
// Errors: ErrShapeMismatch, ErrOptionViolation, or the first Warning in
// DiagnosticsRaise mode.
//
// Complexity: O(N²).
func GeneratorMatrix(transcount [][]int, statetime []float64, opts ...Option) (*matrix.Dense, []Warning, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, nil, ctmcErrorf(opGenerator, o.err)
	}
	d := newDiagnostics(o)

	genmat, err := generator(transcount, statetime, o, d)
	if err != nil {
		return nil, nil, err
	}

	return genmat, d.collected(), nil
}

// generator is GeneratorMatrix with resolved options and a caller-owned sink.
func generator(transcount [][]int, statetime []float64, o Options, d *diagnostics) (*matrix.Dense, error) {
	if err := checkShape(transcount, statetime); err != nil {
		return nil, ctmcErrorf(opGenerator, err)
	}

	n := len(statetime)
	rows := make([][]float64, n)
	var i, j int
	var err error

	// Stage 1: off-diagonal counts. A diagonal count never enters a row; under
	// Strict, ErrorCheck rejects it when checks are on.
	for i = 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if j != i {
				rows[i][j] = float64(transcount[i][j])
			}
		}
		if o.Policy == Tolerant && transcount[i][i] != 0 {
			if err = d.note(stateWarning(i, ErrNonZeroDiagonal)); err != nil {
				return nil, ctmcErrorf(opGenerator, err)
			}
		}
	}

	// Stage 2: each row sums to zero.
	for i = 0; i < n; i++ {
		// 0 - sum keeps an empty row's diagonal at +0 instead of -0.
		rows[i][i] = 0 - floats.Sum(rows[i])
	}

	var mopts []matrix.Option
	if o.Policy == Strict {
		mopts = append(mopts, matrix.WithNoValidateNaNInf())
	}
	genmat, err := matrix.NewDenseFromRows(rows, mopts...)
	if err != nil {
		return nil, ctmcErrorf(opGenerator, err)
	}

	// Stage 3: counts per unit of dwell time.
	short := make([]bool, n)
	for i = 0; i < n; i++ {
		if o.Policy == Tolerant && !(statetime[i] >= o.TolTime) {
			short[i] = true
			if err = d.note(stateWarning(i, ErrShortStateTime)); err != nil {
				return nil, ctmcErrorf(opGenerator, err)
			}
		}
	}
	err = genmat.Apply(func(r, _ int, v float64) float64 {
		if short[r] {
			return 0
		}

		return v / statetime[r]
	})
	if err != nil {
		return nil, ctmcErrorf(opGenerator, err)
	}

	return genmat, nil
}
