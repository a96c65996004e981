// SPDX-License-Identifier: MIT

// Package matrix - matrix exponential.
//
// Purpose:
//   - Compute exp(A·t) for square A, the step that turns a CTMC rate matrix into
//     a transition-probability matrix over an interval t.
//
// Implementation:
//   - Delegates to gonum's mat.Dense.Exp (Higham's scaling-and-squaring with
//     Padé approximants). Our Dense is copied in and out; no aliasing.
//
// Numeric policy:
//   - Non-finite input is rejected up front (ErrNaNInf): a NaN norm would
//     otherwise drive the squaring count out of range.
//   - A non-finite result, or a panic inside the kernel, is reported as
//     ErrExpmFailed. Results are never silently approximated.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Expm returns exp(m·t) as a fresh *Dense.
//
// Implementation:
//   - Stage 1: ValidateSquareNonNil(m), t finite, ValidateFinite(m).
//   - Stage 2: Scale(m, t) and hand its backing slice to a gonum Dense.
//   - Stage 3: run mat.Dense.Exp; copy the result back; check it is finite.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare (shape).
//   - ErrNaNInf (non-finite t or input entry).
//   - ErrExpmFailed (non-finite result or kernel failure).
//
// Complexity:
//   - Time O(n^3 · (q + s)) for Padé degree q and s squarings; Space O(n^2).
func Expm(m Matrix, t float64) (*Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opExpm, err)
	}
	if isNonFinite(t) {
		return nil, matrixErrorf(opExpm, fmt.Errorf("interval %v: %w", t, ErrNaNInf))
	}
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	n := m.Rows()
	scaled, err := Scale(m, t)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	e, err := gonumExp(mat.NewDense(n, n, scaled.data))
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	res, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v = e.At(i, j)
			if isNonFinite(v) {
				return nil, matrixErrorf(opExpm, denseErrorf(ctxAt, i, j, ErrExpmFailed))
			}
			res.data[i*n+j] = v
		}
	}

	return res, nil
}

// gonumExp runs mat.Dense.Exp and converts a kernel panic into ErrExpmFailed.
func gonumExp(a *mat.Dense) (e *mat.Dense, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("%v: %w", r, ErrExpmFailed)
		}
	}()

	e = new(mat.Dense)
	e.Exp(a)

	return e, nil
}
