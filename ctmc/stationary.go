// SPDX-License-Identifier: MIT

package ctmc

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ctmcfit/matrix"
)

const opStationary = "Stationary"

const (
	// generatorEps bounds the row-sum drift accepted from a fitted generator.
	generatorEps = 1e-9
	// balanceTol bounds |π·Q| per unit of the fastest exit rate.
	balanceTol = 1e-8
)

// Stationary returns the distribution π with π·Q = 0 and Σπ = 1.
//
// Implementation:
//   - Stage 1: check genmat is a generator within generatorEps.
//   - Stage 2: build Qᵀ, replace its last equation by Σπ = 1 and solve with LU.
//   - Stage 3: clamp round-off negatives and check π·Q ≈ 0.
//
// A unique π exists iff Q has exactly one closed class; otherwise the system is
// singular and ErrNoStationary is returned.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNaNInf,
// matrix.ErrNotGenerator, ErrNoStationary.
//
// Complexity: O(N^3).
func Stationary(genmat matrix.Matrix) ([]float64, error) {
	if err := matrix.ValidateGenerator(genmat, generatorEps); err != nil {
		return nil, ctmcErrorf(opStationary, err)
	}

	n := genmat.Rows()
	if n == 1 {
		return []float64{1}, nil
	}
	tr, err := matrix.Transpose(genmat)
	if err != nil {
		return nil, ctmcErrorf(opStationary, err)
	}
	var j int
	for j = 0; j < n; j++ {
		if err = tr.Set(n-1, j, 1); err != nil {
			return nil, ctmcErrorf(opStationary, err)
		}
	}
	rhs := make([]float64, n)
	rhs[n-1] = 1

	pi, err := matrix.Solve(tr, rhs)
	if errors.Is(err, matrix.ErrSingular) {
		return nil, ctmcErrorf(opStationary, fmt.Errorf("%w: %w", ErrNoStationary, err))
	}
	if err != nil {
		return nil, ctmcErrorf(opStationary, err)
	}
	for j = range pi {
		if pi[j] < 0 && pi[j] > -generatorEps {
			pi[j] = 0
		}
	}
	if err = checkBalance(genmat, pi); err != nil {
		return nil, ctmcErrorf(opStationary, err)
	}

	return pi, nil
}

// checkBalance verifies π·Q ≈ 0 relative to the fastest exit rate.
// A nearly singular system can pass LU and still leave a large residual.
func checkBalance(genmat matrix.Matrix, pi []float64) error {
	row, err := matrix.NewDenseFromRows([][]float64{pi})
	if err != nil {
		return err
	}
	flow, err := matrix.Mul(row, genmat)
	if err != nil {
		return err
	}
	zero, err := matrix.NewZeros(1, len(pi))
	if err != nil {
		return err
	}

	var fastest, q float64
	for i := range pi {
		if q, err = genmat.At(i, i); err != nil {
			return err
		}
		fastest = math.Max(fastest, -q)
	}
	ok, err := matrix.AllClose(flow, zero, 0, balanceTol*(1+fastest))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: π·Q does not vanish", ErrNoStationary)
	}

	return nil
}
