// Package matrix offers a small, deterministic dense linear-algebra layer
// for rate and probability matrices.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and an
//     explicit NaN/Inf numeric policy (see options.go).
//   - Kernels: Mul, Transpose, Scale, MatVec, RowSums, AllClose.
//   - Expm, the matrix exponential exp(A·t) (scaling-and-squaring, Padé).
//   - Factorize / Solve, pivoted LU and dense linear solves.
//   - Validators, including ValidateGenerator (CTMC rate matrix invariants)
//     and ValidateStochastic (row-stochastic invariants).
//
// All user-triggered failures are reported as sentinel errors (errors.go)
// wrapped with the operation that detected them; match them with errors.Is.
package matrix
