// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels/facades minimal by delegating shape/nil/finite checks here.
//  - Return sentinel errors tagged with the validator name so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate at most one row buffer.
//
// Note:
//  - Each composite validator follows a fixed sequence (e.g. NotNil → Square → Finite).
//  - Each validator describes what it validates and what it assumes (e.g. no nil check).

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Typed nil pointers (*Dense)(nil) are rejected as well.
//
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
//
// Implementation: Assumes a and b are not nil (caller must ensure).
// Return: nil or wrapped ErrDimensionMismatch.
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
// Assumes m is not nil.
//
// Errors: ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSquareNonNil is a composite check: NotNil → Square.
func ValidateSquareNonNil(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	return ValidateSquare(m)
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix) // reuse the "nil argument" sentinel
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape is a composite check: NotNil(a) → NotNil(b) → SameShape.
// Complexity: O(1).
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateMulCompatible is a composite check: NotNil(a) → NotNil(b) → a.Cols == b.Rows.
// Complexity: O(1).
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite scans m and fails on the first NaN/±Inf with its coordinates.
// Assumes m is not nil.
//
// Errors: ErrNaNInf.
// Complexity: O(r*c).
func ValidateFinite(m Matrix) error {
	r, c := m.Rows(), m.Cols()
	if d, ok := m.(*Dense); ok {
		for idx, v := range d.data {
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", denseErrorf(ctxAt, idx/c, idx%c, ErrNaNInf))
			}
		}

		return nil
	}

	var i, j int
	var v float64
	var err error
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateFinite", err)
			}
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", fmt.Errorf("At(%d,%d): %w", i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateGenerator checks the defining invariants of a CTMC rate matrix:
// square, finite, off-diagonal ≥ -eps, diagonal ≤ eps, every row sums to 0
// within eps·max(1, |diag|).
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrNotGenerator.
// Complexity: O(n^2).
func ValidateGenerator(m Matrix, eps float64) error {
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateGenerator", err)
	}
	if err := ValidateFinite(m); err != nil {
		return validatorErrorf("ValidateGenerator", err)
	}
	eps = math.Abs(eps)

	n := m.Rows()
	row := make([]float64, n) // one reusable row buffer
	var i, j int
	var err error
	for i = 0; i < n; i++ {
		if err = readRow(m, i, row); err != nil {
			return validatorErrorf("ValidateGenerator", err)
		}
		for j = 0; j < n; j++ {
			if j == i && row[j] > eps {
				return validatorErrorf("ValidateGenerator", fmt.Errorf("positive diagonal at (%d,%d): %w", i, j, ErrNotGenerator))
			}
			if j != i && row[j] < -eps {
				return validatorErrorf("ValidateGenerator", fmt.Errorf("negative rate at (%d,%d): %w", i, j, ErrNotGenerator))
			}
		}
		if math.Abs(floats.Sum(row)) > eps*math.Max(1, math.Abs(row[i])) {
			return validatorErrorf("ValidateGenerator", fmt.Errorf("row %d sums to %g: %w", i, floats.Sum(row), ErrNotGenerator))
		}
	}

	return nil
}

// ValidateStochastic checks that every row of m is a probability distribution:
// entries ≥ -eps and row sums within eps of 1.
//
// Errors: ErrNilMatrix, ErrNaNInf, ErrNotStochastic.
// Complexity: O(r*c).
func ValidateStochastic(m Matrix, eps float64) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateStochastic", err)
	}
	if err := ValidateFinite(m); err != nil {
		return validatorErrorf("ValidateStochastic", err)
	}
	eps = math.Abs(eps)

	r, c := m.Rows(), m.Cols()
	row := make([]float64, c)
	var i int
	var err error
	for i = 0; i < r; i++ {
		if err = readRow(m, i, row); err != nil {
			return validatorErrorf("ValidateStochastic", err)
		}
		if floats.Min(row) < -eps {
			return validatorErrorf("ValidateStochastic", fmt.Errorf("negative probability in row %d: %w", i, ErrNotStochastic))
		}
		if math.Abs(floats.Sum(row)-1) > eps {
			return validatorErrorf("ValidateStochastic", fmt.Errorf("row %d sums to %g: %w", i, floats.Sum(row), ErrNotStochastic))
		}
	}

	return nil
}

// readRow copies row i of m into dst (len(dst) == m.Cols()).
// Dense fast path copies the backing slice; otherwise At is used.
func readRow(m Matrix, i int, dst []float64) error {
	if d, ok := m.(*Dense); ok {
		copy(dst, d.data[i*d.c:(i+1)*d.c])

		return nil
	}
	var err error
	for j := range dst {
		if dst[j], err = m.At(i, j); err != nil {
			return err
		}
	}

	return nil
}
