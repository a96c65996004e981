// Package ctmc estimates a continuous-time Markov chain from event-history data.
//
// What
//
//   - Input: a Dataset of Examples, one per subject; Example.States[i] was
//     occupied for Example.Durations[i]. States are integers in [0, numstates).
//   - Sufficient statistics (AggregateEvents):
//   - TransCount[i][j]: observed i→j transitions
//   - StateTime[i]:     total time spent in state i
//   - Generator matrix (GeneratorMatrix): off-diagonal count/StateTime[i],
//     diagonal −(row sum), so every row sums to zero.
//   - Transition matrix (TransitionMatrix): exp(genmat·Δt), row-stochastic.
//   - Pipelines: Fit (strict) and FitTolerant (tolerant); Estimate picks one
//     from WithPolicy.
//
// Policies
//
//	Strict fails on the first violation with an error wrapping one of
//	ErrStateOutOfRange, ErrSingleState, ErrRepeatedState, ErrShortDuration,
//	ErrNonZeroDiagonal or ErrShortStateTime. Tolerant excludes the offending
//	example, entry or transition and reports a Warning carrying the same
//	sentinel, so errors.Is works on both.
//
// Diagnostics
//
//	WithDiagnostics(DiagnosticsCollect) (default) records warnings in
//	Result.Warnings and logs each at WARN through WithLogger's *slog.Logger.
//	DiagnosticsRaise aborts on the first warning; DiagnosticsSilent drops them.
//
// Determinism
//
//	Results depend only on the inputs and options. With WithWorkers(n) the
//	dataset is split into n contiguous chunks whose partial aggregates merge in
//	chunk order; counts and warning order match the sequential run.
//
// Complexity (L = Σ len(States), N = numstates)
//
//   - Aggregation: O(L) time, sparse counts O(min(L, N²)) memory.
//   - Generator:   O(N²).
//   - Exponential: O(N³ · log ‖genmat·Δt‖).
//
// Usage
//
//	data := ctmc.Dataset{{States: []int{0, 1, 0}, Durations: []float64{1, 1, 1}}}
//	res, err := ctmc.Fit(data, 2, ctmc.WithTransIntv(0.5))
//	if err != nil {
//		// errors.Is(err, ctmc.ErrShortStateTime), ...
//	}
//	p5, _ := res.Project(5) // same genmat, Δt = 5
package ctmc
