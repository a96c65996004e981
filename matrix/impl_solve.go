// SPDX-License-Identifier: MIT

// Package matrix - LU factorization and dense linear solves.
//
// Purpose:
//   - Solve A·x = b for square A, the step behind the stationary distribution
//     of a generator matrix.
//
// Implementation:
//   - Doolittle elimination with partial (row) pivoting, stored compactly:
//     the strict lower triangle holds L (unit diagonal implied), the upper
//     triangle holds U. perm[i] is the source row of pivoted row i.
//   - Solve runs forward substitution L·y = P·b, then back substitution U·x = y.
//
// Numeric policy:
//   - A pivot with |u_kk| <= singularRTol · max|A| is treated as zero (ErrSingular).
//     No regularization or least-squares fallback is attempted.

package matrix

import (
	"fmt"
	"math"
)

// singularRTol scales the largest input magnitude into the zero-pivot threshold.
const singularRTol = 1e-12

// LU is a pivoted LU factorization P·A = L·U.
type LU struct {
	n    int
	lu   []float64 // row-major n×n, L below the diagonal, U on and above
	perm []int
}

// Factorize computes P·A = L·U for square, finite A.
//
// Implementation:
//   - Stage 1: ValidateSquareNonNil(a), ValidateFinite(a); copy into a flat buffer.
//   - Stage 2: for each column k pick the row with the largest |a_ik| (i >= k),
//     swap it into place, then eliminate below the pivot.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrSingular.
//
// Complexity: Time O(n^3), Space O(n^2).
func Factorize(a Matrix) (*LU, error) {
	if err := ValidateSquareNonNil(a); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	if err := ValidateFinite(a); err != nil {
		return nil, matrixErrorf(opLU, err)
	}

	// Stage 1: Prepare
	n := a.Rows()
	f := &LU{n: n, lu: make([]float64, n*n), perm: make([]int, n)}
	if d, ok := a.(*Dense); ok {
		copy(f.lu, d.data)
	} else {
		var err error
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if f.lu[i*n+j], err = a.At(i, j); err != nil {
					return nil, matrixErrorf(opLU, err)
				}
			}
		}
	}
	scale := ZeroSum
	for _, v := range f.lu {
		scale = math.Max(scale, math.Abs(v))
	}
	tol := singularRTol * scale
	for i := range f.perm {
		f.perm[i] = i
	}

	// Stage 2: Execute elimination
	var (
		i, j, k, p int
		pivot, l   float64
	)
	for k = 0; k < n; k++ {
		p = k
		for i = k + 1; i < n; i++ {
			if math.Abs(f.lu[i*n+k]) > math.Abs(f.lu[p*n+k]) {
				p = i
			}
		}
		pivot = f.lu[p*n+k]
		if math.Abs(pivot) <= tol {
			return nil, matrixErrorf(opLU, fmt.Errorf("zero pivot at column %d: %w", k, ErrSingular))
		}
		if p != k {
			for j = 0; j < n; j++ {
				f.lu[k*n+j], f.lu[p*n+j] = f.lu[p*n+j], f.lu[k*n+j]
			}
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
		}
		for i = k + 1; i < n; i++ {
			l = f.lu[i*n+k] / pivot
			f.lu[i*n+k] = l
			if l == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				f.lu[i*n+j] -= l * f.lu[k*n+j]
			}
		}
	}

	return f, nil
}

// Solve returns x with A·x = b for the factorized A.
// Errors: ErrDimensionMismatch when len(b) != n.
// Complexity: O(n^2).
func (f *LU) Solve(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	n := f.n
	x := make([]float64, n)
	var i, k int
	var sum float64

	// forward: L·y = P·b (y stored in x)
	for i = 0; i < n; i++ {
		sum = b[f.perm[i]]
		for k = 0; k < i; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum
	}
	// backward: U·x = y
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum / f.lu[i*n+i]
	}

	return x, nil
}

// Solve returns x with a·x = b. It is Factorize followed by LU.Solve.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrSingular, ErrDimensionMismatch.
func Solve(a Matrix, b []float64) ([]float64, error) {
	f, err := Factorize(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return f.Solve(b)
}
