// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, scalar scaling and matrix-vector products.
// All functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Notes:
//   - Every kernel allocates a fresh Dense result; operands are never mutated.
//   - *Dense operands unlock flat-slice fast paths; other Matrix values use At/Set
//     with a fixed i→j order, so both paths produce identical results.

package matrix

import (
	"fmt"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opExpm      = "Expm"
	opAllClose  = "AllClose"
	opIdentity  = "IdentityLike"
	opRowSums   = "RowSums"
	opLU        = "LU"
	opSolve     = "Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the product A × B as a fresh Dense.
//
// Powers of a transition matrix are chained through Mul, so the kernel works
// row by row: C[i,:] accumulates A[i,k]·B[k,:] over k, and a zero A[i,k]
// contributes nothing and is skipped. Transition and rate matrices of rating
// chains are mostly zeros away from the diagonal band.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (A.Cols != B.Rows).
//
// Complexity: O(r·n·c) time, O(r·c) space.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	r, n, c := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(r, c, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if !okA || !okB {
		// copy both operands once instead of paying At per multiply
		if da, err = denseCopy(a); err != nil {
			return nil, matrixErrorf(opMul, err)
		}
		if db, err = denseCopy(b); err != nil {
			return nil, matrixErrorf(opMul, err)
		}
	}

	var i, k int
	var aik float64
	var out, brow []float64
	for i = 0; i < r; i++ {
		out = res.data[i*c : (i+1)*c]
		for k = 0; k < n; k++ {
			if aik = da.data[i*n+k]; aik == 0 {
				continue
			}
			brow = db.data[k*c : (k+1)*c]
			for j, v := range brow {
				out[j] += aik * v
			}
		}
	}

	return res, nil
}

// denseCopy reads any Matrix into a fresh Dense without the NaN/Inf policy.
func denseCopy(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	rows, cols := m.Rows(), m.Cols()
	d, err := NewDense(rows, cols, WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		if err = readRow(m, i, d.data[i*cols:(i+1)*cols]); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows, WithNoValidateNaNInf()) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns alpha·m as a fresh Dense; m is left untouched.
// Expm uses it to form Q·Δt before the exponential.
//
// Errors: ErrNilMatrix.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	src, err := denseCopy(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	res, err := NewDense(m.Rows(), m.Cols(), WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range src.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	if err := ValidateVecLen(x, cols); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, rows)
	var i, j int
	var sum float64
	if dm, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			base = i * cols
			sum = ZeroSum
			for j = 0; j < cols; j++ {
				sum += dm.data[base+j] * x[j]
			}
			y[i] = sum
		}

		return y, nil
	}

	var v float64
	var err error
	for i = 0; i < rows; i++ {
		sum = ZeroSum
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}
