// SPDX-License-Identifier: MIT
// Package ctmc: strict checks before and after aggregation.

package ctmc

import "fmt"

const (
	opDataCheck  = "DataCheck"
	opErrorCheck = "ErrorCheck"
)

// DataCheck inspects every example and fails fast on the first violation.
//
// Per example, in order:
//   - len(States) != len(Durations)          → ErrLengthMismatch
//   - any state outside [0, numstates)        → ErrStateOutOfRange
//   - fewer than 2 distinct states            → ErrSingleState
//   - States[i-1] == States[i]                → ErrRepeatedState
//   - Durations[i] < toltime (NaN included)   → ErrShortDuration
//
// The returned error wraps an *ExampleError carrying the example id and, where
// relevant, the entry index. DataCheck has no side effects.
//
// Complexity: O(Σ len(States)).
func DataCheck(data Dataset, numstates int, toltime float64) error {
	if numstates < 1 {
		return ctmcErrorf(opDataCheck, fmt.Errorf("%w (%d)", ErrBadNumStates, numstates))
	}
	for exid, ex := range data {
		if err := checkExample(exid, ex, numstates, toltime); err != nil {
			return ctmcErrorf(opDataCheck, err)
		}
	}

	return nil
}

// checkExample applies the DataCheck rules to a single example.
func checkExample(exid int, ex Example, numstates int, toltime float64) error {
	if len(ex.States) != len(ex.Durations) {
		return &ExampleError{Example: exid, Index: -1, Err: ErrLengthMismatch}
	}
	for i, s := range ex.States {
		if s < 0 || s >= numstates {
			return &ExampleError{Example: exid, Index: i, Err: ErrStateOutOfRange}
		}
	}
	if !distinctAtLeastTwo(ex.States) {
		return &ExampleError{Example: exid, Index: -1, Err: ErrSingleState}
	}
	for i := 1; i < len(ex.States); i++ {
		if ex.States[i-1] == ex.States[i] {
			return &ExampleError{Example: exid, Index: i, Err: ErrRepeatedState}
		}
	}
	for i, d := range ex.Durations {
		if !(d >= toltime) {
			return &ExampleError{Example: exid, Index: i, Err: ErrShortDuration}
		}
	}

	return nil
}

// ErrorCheck validates aggregated statistics before they are divided.
//
// It fails with a *StateError when:
//   - any transcount[i][i] != 0 (a counting bug upstream) → ErrNonZeroDiagonal
//   - any statetime[i] < toltime (NaN included)           → ErrShortStateTime
//
// Mismatched shapes are reported as ErrShapeMismatch.
//
// Complexity: O(N).
func ErrorCheck(transcount [][]int, statetime []float64, toltime float64) error {
	if err := checkShape(transcount, statetime); err != nil {
		return ctmcErrorf(opErrorCheck, err)
	}

	var diag []int
	for i := range transcount {
		if transcount[i][i] != 0 {
			diag = append(diag, i)
		}
	}
	if len(diag) > 0 {
		return ctmcErrorf(opErrorCheck, &StateError{States: diag, Err: ErrNonZeroDiagonal})
	}

	var short []int
	for i, t := range statetime {
		if !(t >= toltime) {
			short = append(short, i)
		}
	}
	if len(short) > 0 {
		return ctmcErrorf(opErrorCheck, &StateError{States: short, Err: ErrShortStateTime})
	}

	return nil
}

// checkShape requires a non-empty N×N transcount and a length-N statetime.
func checkShape(transcount [][]int, statetime []float64) error {
	n := len(statetime)
	if n == 0 {
		return fmt.Errorf("%w: empty state space", ErrShapeMismatch)
	}
	if len(transcount) != n {
		return fmt.Errorf("%w: %d rows, %d states", ErrShapeMismatch, len(transcount), n)
	}
	for i, row := range transcount {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), n)
		}
	}

	return nil
}
