// SPDX-License-Identifier: MIT
// Package ctmc: sufficient-statistic aggregation.
//
// Implementation:
//   - Counts accumulate in a sparse map keyed by (from, to); the dense N×N
//     matrix is materialized once at the end.
//   - With Workers > 1 the dataset is cut into contiguous chunks. Each worker
//     owns a partial accumulator; partials are merged in chunk order, so
//     warnings stay ordered by example id and the result does not depend on
//     scheduling (statetime sums may differ from the sequential run in the
//     last ulp because the summation is regrouped).

package ctmc

import (
	"fmt"
	"sync"
)

const opAggregate = "AggregateEvents"

// pairKey addresses one transition count cell.
type pairKey struct{ from, to int }

// accumulator is a partial aggregate over a contiguous run of examples.
type accumulator struct {
	counts    map[pairKey]int
	statetime []float64
	warnings  []Warning
	raise     bool // stop at the first warning
}

func newAccumulator(n int, raise bool) *accumulator {
	return &accumulator{
		counts:    make(map[pairKey]int),
		statetime: make([]float64, n),
		raise:     raise,
	}
}

// warn buffers w; in raise mode w is returned so the caller stops.
func (a *accumulator) warn(w Warning) error {
	a.warnings = append(a.warnings, w)
	if a.raise {
		return w
	}

	return nil
}

// addStrict accumulates ex without filtering. Only states the counters
// cannot address are rejected.
func (a *accumulator) addStrict(exid int, ex Example) error {
	n := len(a.statetime)
	if len(ex.States) != len(ex.Durations) {
		return &ExampleError{Example: exid, Index: -1, Err: ErrLengthMismatch}
	}
	for i, s := range ex.States {
		if s < 0 || s >= n {
			return &ExampleError{Example: exid, Index: i, Err: ErrStateOutOfRange}
		}
		a.statetime[s] += ex.Durations[i]
		if i > 0 {
			a.counts[pairKey{ex.States[i-1], s}]++
		}
	}

	return nil
}

// addTolerant accumulates ex, skipping what cannot be trusted:
//   - the whole example if lengths differ or it has < 2 distinct states;
//   - an entry whose state is out of range or whose duration < toltime,
//     together with both edges through it;
//   - the count (not the time) of a repeated adjacent pair.
func (a *accumulator) addTolerant(exid int, ex Example, toltime float64) error {
	n := len(a.statetime)
	if len(ex.States) != len(ex.Durations) {
		return a.warn(exampleWarning(exid, -1, ErrLengthMismatch))
	}
	if !distinctAtLeastTwo(ex.States) {
		return a.warn(exampleWarning(exid, -1, ErrSingleState))
	}

	prevOK := false
	var ok bool
	var err error
	for i, s := range ex.States {
		ok = true
		switch {
		case s < 0 || s >= n:
			ok = false
			err = a.warn(exampleWarning(exid, i, ErrStateOutOfRange))
		case !(ex.Durations[i] >= toltime):
			ok = false
			err = a.warn(exampleWarning(exid, i, ErrShortDuration))
		default:
			a.statetime[s] += ex.Durations[i]
			if i > 0 && prevOK {
				if ex.States[i-1] == s {
					err = a.warn(exampleWarning(exid, i, ErrRepeatedState))
				} else {
					a.counts[pairKey{ex.States[i-1], s}]++
				}
			}
		}
		if err != nil {
			return err
		}
		prevOK = ok
	}

	return nil
}

// run accumulates data[lo:hi] under policy p.
func (a *accumulator) run(data Dataset, lo, hi int, p Policy, toltime float64) error {
	var err error
	for exid := lo; exid < hi; exid++ {
		if p == Tolerant {
			err = a.addTolerant(exid, data[exid], toltime)
		} else {
			err = a.addStrict(exid, data[exid])
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// merge adds b into a elementwise and appends b's warnings.
func (a *accumulator) merge(b *accumulator) {
	for k, v := range b.counts {
		a.counts[k] += v
	}
	for i, t := range b.statetime {
		a.statetime[i] += t
	}
	a.warnings = append(a.warnings, b.warnings...)
}

// dense materializes the sparse counts as an N×N matrix.
func (a *accumulator) dense() [][]int {
	n := len(a.statetime)
	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
	}
	for k, v := range a.counts {
		out[k.from][k.to] = v
	}

	return out
}

// AggregateEvents computes the transition counts and per-state dwell times.
//
// Policy (WithPolicy, default Strict):
//   - Strict trusts the caller: every adjacent pair is counted (a repeated
//     state lands on the diagonal for ErrorCheck to catch) and every duration
//     is added. Only a length mismatch or a state outside [0, numstates) is an
//     error, since neither can be accumulated.
//   - Tolerant skips malformed examples, entries and pairs, reporting each as a
//     Warning through the diagnostics mode (collect, raise or silent).
//
// Errors: ErrBadNumStates, ErrOptionViolation, a wrapped *ExampleError (strict),
// or the first Warning in DiagnosticsRaise mode.
//
// Complexity: O(Σ len(States) + N²) time, O(N²) worst-case memory.
func AggregateEvents(data Dataset, numstates int, opts ...Option) (*Stats, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, ctmcErrorf(opAggregate, o.err)
	}
	d := newDiagnostics(o)

	st, err := aggregate(data, numstates, o, d)
	if err != nil {
		return nil, err
	}
	st.Warnings = d.collected()

	return st, nil
}

// aggregate is AggregateEvents with resolved options and a caller-owned sink.
func aggregate(data Dataset, numstates int, o Options, d *diagnostics) (*Stats, error) {
	if numstates < 1 {
		return nil, ctmcErrorf(opAggregate, fmt.Errorf("%w (%d)", ErrBadNumStates, numstates))
	}

	raise := o.Diagnostics == DiagnosticsRaise
	acc, err := accumulate(data, numstates, o, raise)
	if err != nil {
		return nil, ctmcErrorf(opAggregate, err)
	}
	if err = d.replay(acc.warnings); err != nil {
		return nil, ctmcErrorf(opAggregate, err)
	}

	return &Stats{TransCount: acc.dense(), StateTime: acc.statetime}, nil
}

// accumulate runs the sequential or chunked aggregation.
func accumulate(data Dataset, numstates int, o Options, raise bool) (*accumulator, error) {
	workers := o.Workers
	if workers > len(data) {
		workers = len(data)
	}
	if workers <= 1 {
		acc := newAccumulator(numstates, raise)

		return acc, acc.run(data, 0, len(data), o.Policy, o.TolTime)
	}

	parts := make([]*accumulator, workers)
	errs := make([]error, workers)
	chunk := (len(data) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(data))
		parts[w] = newAccumulator(numstates, raise)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errs[w] = parts[w].run(data, lo, hi, o.Policy, o.TolTime)
		}(w, lo, hi)
	}
	wg.Wait()

	total := newAccumulator(numstates, raise)
	for w, p := range parts {
		// the first failing chunk in dataset order decides the error
		if errs[w] != nil {
			return nil, errs[w]
		}
		total.merge(p)
	}

	return total, nil
}
