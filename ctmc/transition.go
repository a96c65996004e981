// SPDX-License-Identifier: MIT

package ctmc

import (
	"fmt"

	"github.com/katalvlaran/ctmcfit/matrix"
)

const opTransition = "TransitionMatrix"

// stochasticEps bounds how far a row of exp(Q·Δt) may drift from a
// probability vector. Well-conditioned fits stay within ~1e-11; stiff
// generators (rates spanning many orders of magnitude) exceed it.
const stochasticEps = 1e-9

// TransitionMatrix returns exp(genmat·transintv), the probabilities of being
// in state j after transintv given state i now.
//
// Errors:
//   - ErrBadInterval when transintv is not finite and > 0.
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare for a malformed genmat.
//   - matrix.ErrNaNInf when genmat holds a degenerate (NaN/Inf) row.
//   - matrix.ErrExpmFailed when the exponential does not produce finite values,
//     or when a row is negative or does not sum to 1 within stochasticEps.
func TransitionMatrix(genmat matrix.Matrix, transintv float64) (*matrix.Dense, error) {
	if !validInterval(transintv) {
		return nil, ctmcErrorf(opTransition, fmt.Errorf("%w (%v)", ErrBadInterval, transintv))
	}
	p, err := matrix.Expm(genmat, transintv)
	if err != nil {
		return nil, ctmcErrorf(opTransition, err)
	}
	if err = matrix.ValidateStochastic(p, stochasticEps); err != nil {
		return nil, ctmcErrorf(opTransition, fmt.Errorf("%w: %w", matrix.ErrExpmFailed, err))
	}

	return p, nil
}
