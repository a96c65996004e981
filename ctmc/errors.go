// SPDX-License-Identifier: MIT
// Package ctmc: sentinel errors and located error types.
//
// Policy:
//   - Every sentinel carries the "ctmc: " prefix; callers match with errors.Is.
//   - Call sites wrap with ctmcErrorf so messages keep an "Op: underlying" shape.
//   - Violations tied to one input sequence are reported as *ExampleError, which
//     unwraps to the sentinel.

package ctmc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Input (sequence-level) violations.
var (
	// ErrStateOutOfRange is returned when a state lies outside [0, numstates).
	ErrStateOutOfRange = errors.New("ctmc: state out of range")

	// ErrSingleState is returned when a sequence has fewer than 2 distinct states.
	ErrSingleState = errors.New("ctmc: fewer than 2 distinct states")

	// ErrRepeatedState is returned when two consecutive entries carry the same state.
	ErrRepeatedState = errors.New("ctmc: two consecutive entries with the same state")

	// ErrShortDuration is returned when an entry was active for less than toltime.
	ErrShortDuration = errors.New("ctmc: duration smaller than toltime")

	// ErrLengthMismatch is returned when states and durations differ in length.
	ErrLengthMismatch = errors.New("ctmc: states and durations differ in length")
)

// Aggregate (post-aggregation) violations.
var (
	// ErrNonZeroDiagonal is returned when a transition count diagonal is non-zero.
	ErrNonZeroDiagonal = errors.New("ctmc: transition count diagonal is not zero")

	// ErrShortStateTime is returned when a state's cumulated time is below toltime.
	ErrShortStateTime = errors.New("ctmc: cumulated time period smaller than toltime")

	// ErrShapeMismatch is returned when transcount and statetime disagree on N.
	ErrShapeMismatch = errors.New("ctmc: transcount and statetime shapes differ")
)

// Call-level violations.
var (
	// ErrBadNumStates is returned when numstates < 1.
	ErrBadNumStates = errors.New("ctmc: numstates must be positive")

	// ErrBadInterval is returned when the transition interval is not finite and > 0.
	ErrBadInterval = errors.New("ctmc: transition interval must be finite and > 0")

	// ErrBadSteps is returned when a step count is negative.
	ErrBadSteps = errors.New("ctmc: step count must be >= 0")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("ctmc: invalid option supplied")

	// ErrNoStationary is returned when the chain has more than one closed
	// class, so no unique stationary distribution exists.
	ErrNoStationary = errors.New("ctmc: no unique stationary distribution")
)

// ctmcErrorf wraps err with an operation tag, preserving it via %w.
func ctmcErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// ExampleError locates a violation inside the dataset.
// Index is the entry position within the sequence, or -1 when the violation
// concerns the sequence as a whole.
type ExampleError struct {
	Example int
	Index   int
	Err     error
}

// Error implements error.
func (e *ExampleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("example id=%d: %v", e.Example, e.Err)
	}

	return fmt.Sprintf("example id=%d, entry %d: %v", e.Example, e.Index, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ExampleError) Unwrap() error { return e.Err }

// StateError lists the states that fail a post-aggregation check.
type StateError struct {
	States []int
	Err    error
}

// Error implements error.
func (e *StateError) Error() string {
	ids := make([]string, len(e.States))
	for k, s := range e.States {
		ids[k] = strconv.Itoa(s)
	}

	return fmt.Sprintf("states i=%s: %v", strings.Join(ids, ","), e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *StateError) Unwrap() error { return e.Err }
