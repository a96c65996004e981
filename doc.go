// Package ctmcfit estimates continuous-time Markov chains from observed
// event sequences: which state a subject was in and for how long.
//
// What is in the box?
//
//	A small, deterministic estimation pipeline:
//		• Validation: DataCheck on the dataset, ErrorCheck on the aggregates
//		• Aggregation: transition counts and cumulated state time, optionally sharded over workers
//		• Generator: maximum-likelihood rate matrix Q[i][j] = N_ij / R_i
//		• Transition: P(Δt) = exp(Q·Δt) by Padé scaling-and-squaring
//		• Panels: (id, date, label) tables turned into sequences with year-fraction durations
//
// Two policies share one code path:
//
//   - strict rejects the first defect with a located error
//   - tolerant skips the offending example or entry and reports a warning
//
// Packages:
//
//	matrix/  Dense matrix, validators, linear algebra, Expm
//	ctmc/  datasets, aggregation, generator, transition, classification
//	panel/  CSV panels, label encoding, year fractions, table transform
//	internal/config  YAML configuration
//	internal/store  SQLite persistence of fitted runs
//	internal/cli  the ctmcfit command (cobra)
//
// Quick example:
//
//	res, err := ctmc.Fit(ctmc.Dataset{
//		{States: []int{0, 1}, Durations: []float64{1, 2}},
//		{States: []int{1, 0}, Durations: []float64{1, 1}},
//	}, 2, ctmc.WithTransIntv(0.5))
//
//	go install github.com/katalvlaran/ctmcfit/cmd/ctmcfit@latest
package ctmcfit
