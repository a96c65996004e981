// SPDX-License-Identifier: MIT
// Package ctmc: data model for sequences, policies, warnings and results.

package ctmc

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/ctmcfit/matrix"
)

// Example is one subject's observed path: States[i] was occupied for Durations[i].
type Example struct {
	States    []int     `yaml:"states" json:"states"`
	Durations []float64 `yaml:"durations" json:"durations"`
}

// Dataset is an ordered collection of examples; the position is the example id.
type Dataset []Example

// MaxState returns the largest state label in the dataset, or -1 when empty.
func (d Dataset) MaxState() int {
	maxState := -1
	for _, ex := range d {
		for _, s := range ex.States {
			if s > maxState {
				maxState = s
			}
		}
	}

	return maxState
}

// distinctAtLeastTwo reports whether states holds two or more distinct values.
func distinctAtLeastTwo(states []int) bool {
	for i := 1; i < len(states); i++ {
		if states[i] != states[0] {
			return true
		}
	}

	return false
}

// Policy selects how malformed input and degenerate states are handled.
type Policy int

const (
	// Strict fails on the first violation and never corrects data.
	Strict Policy = iota
	// Tolerant skips the offending unit of data and reports a Warning.
	Tolerant
)

// String returns the lower-case policy name.
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Tolerant:
		return "tolerant"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "strict" or "tolerant" (case-insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "tolerant":
		return Tolerant, nil
	default:
		return Strict, fmt.Errorf("%w: unknown policy %q", ErrOptionViolation, s)
	}
}

// DiagnosticsMode selects what happens to warnings.
type DiagnosticsMode int

const (
	// DiagnosticsCollect records warnings in the result and logs each at WARN.
	DiagnosticsCollect DiagnosticsMode = iota
	// DiagnosticsRaise turns the first warning into the call's error.
	DiagnosticsRaise
	// DiagnosticsSilent discards warnings.
	DiagnosticsSilent
)

// String returns the lower-case mode name.
func (m DiagnosticsMode) String() string {
	switch m {
	case DiagnosticsCollect:
		return "collect"
	case DiagnosticsRaise:
		return "raise"
	case DiagnosticsSilent:
		return "silent"
	default:
		return fmt.Sprintf("DiagnosticsMode(%d)", int(m))
	}
}

// ParseDiagnostics maps "collect", "raise" or "silent" to a DiagnosticsMode.
func ParseDiagnostics(s string) (DiagnosticsMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "collect":
		return DiagnosticsCollect, nil
	case "raise":
		return DiagnosticsRaise, nil
	case "silent":
		return DiagnosticsSilent, nil
	default:
		return DiagnosticsCollect, fmt.Errorf("%w: unknown diagnostics mode %q", ErrOptionViolation, s)
	}
}

// Warning is a non-fatal diagnostic from the tolerant policy.
// Example and Index are -1 when not applicable; State is -1 when the warning
// is not about a single state. Err is the sentinel the strict policy would
// have returned, so errors.Is works on a Warning.
type Warning struct {
	Example int    `json:"example"`
	Index   int    `json:"index"`
	State   int    `json:"state"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

// Error implements error so a raised warning can be returned as-is.
func (w Warning) Error() string { return w.Message }

// Unwrap returns the underlying sentinel.
func (w Warning) Unwrap() error { return w.Err }

// exampleWarning builds a Warning located in the dataset.
func exampleWarning(exid, idx int, err error) Warning {
	return Warning{
		Example: exid,
		Index:   idx,
		State:   -1,
		Err:     err,
		Message: (&ExampleError{Example: exid, Index: idx, Err: err}).Error(),
	}
}

// stateWarning builds a Warning about state i.
func stateWarning(i int, err error) Warning {
	return Warning{
		Example: -1,
		Index:   -1,
		State:   i,
		Err:     err,
		Message: (&StateError{States: []int{i}, Err: err}).Error(),
	}
}

// Stats are the sufficient statistics of a dataset.
//   - TransCount[i][j]: number of observed i→j transitions (zero diagonal).
//   - StateTime[i]: total time spent in state i.
type Stats struct {
	TransCount [][]int
	StateTime  []float64
	Warnings   []Warning
}

// NumStates returns N.
func (s *Stats) NumStates() int { return len(s.StateTime) }

// Result carries every artifact of a fit. It is not mutated after return.
type Result struct {
	TransMat   *matrix.Dense
	GenMat     *matrix.Dense
	TransCount [][]int
	StateTime  []float64
	Warnings   []Warning

	Policy    Policy
	TolTime   float64
	TransIntv float64
}

const opSteps = "Steps"

// Project returns exp(GenMat·t) for another interval without re-aggregating.
//
// Errors: ErrBadInterval, plus matrix.ErrNaNInf / matrix.ErrExpmFailed from Expm.
func (r *Result) Project(t float64) (*matrix.Dense, error) {
	return TransitionMatrix(r.GenMat, t)
}

// Steps returns TransMat^k, the transition probabilities over k·TransIntv
// under the time-homogeneous chain (Chapman-Kolmogorov). Steps(0) is I.
//
// Implementation: binary powering with matrix.Mul, O(N³·log k).
//
// Errors: ErrBadSteps for k < 0, matrix.ErrNilMatrix without a TransMat.
func (r *Result) Steps(k int) (*matrix.Dense, error) {
	if k < 0 {
		return nil, ctmcErrorf(opSteps, fmt.Errorf("%w (%d)", ErrBadSteps, k))
	}
	acc, err := matrix.IdentityLike(r.TransMat)
	if err != nil {
		return nil, ctmcErrorf(opSteps, err)
	}

	base := r.TransMat
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			if acc, err = matrix.Mul(acc, base); err != nil {
				return nil, ctmcErrorf(opSteps, err)
			}
		}
		if k > 1 {
			if base, err = matrix.Mul(base, base); err != nil {
				return nil, ctmcErrorf(opSteps, err)
			}
		}
	}

	return acc, nil
}
