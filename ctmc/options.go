// SPDX-License-Identifier: MIT
// Package ctmc: functional configuration for the estimation pipeline.
//
// Invalid option values are recorded and surfaced as ErrOptionViolation by the
// entry point that receives them; options never panic.

package ctmc

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultTolTime is the smallest duration (and cumulated state time) treated as non-zero.
	DefaultTolTime = 1e-8

	// DefaultTransIntv is the interval Δt of the returned transition matrix.
	DefaultTransIntv = 1.0

	// DefaultWorkers runs aggregation on the calling goroutine.
	DefaultWorkers = 1
)

// Option configures a pipeline call via functional arguments.
type Option func(*Options)

// Options holds the pipeline parameters.
type Options struct {
	// TolTime is the duration threshold used by the checks and the tolerant policy.
	TolTime float64

	// TransIntv is Δt for exp(genmat·Δt).
	TransIntv float64

	// Policy selects strict or tolerant handling where a call is policy-neutral
	// (AggregateEvents, GeneratorMatrix, Estimate). Fit and FitTolerant fix it.
	Policy Policy

	// DataCheck and ErrorCheck enable the strict pre- and post-aggregation checks.
	DataCheck  bool
	ErrorCheck bool

	// Diagnostics selects collect, raise or silent warning handling.
	Diagnostics DiagnosticsMode

	// Logger receives one WARN record per collected warning.
	Logger *slog.Logger

	// Workers > 1 aggregates contiguous chunks of the dataset concurrently.
	Workers int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with:
//   - TolTime = DefaultTolTime, TransIntv = DefaultTransIntv
//   - Strict policy, both checks enabled
//   - DiagnosticsCollect, logger tagged component=ctmc
//   - sequential aggregation.
func DefaultOptions() Options {
	return Options{
		TolTime:     DefaultTolTime,
		TransIntv:   DefaultTransIntv,
		Policy:      Strict,
		DataCheck:   true,
		ErrorCheck:  true,
		Diagnostics: DiagnosticsCollect,
		Logger:      slog.Default().With(slog.String("component", "ctmc")),
		Workers:     DefaultWorkers,
	}
}

// gatherOptions applies user options over the defaults; nil options are skipped.
func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// ValidateOptions applies opts to the defaults and returns the recorded
// violation, if any, without running anything.
func ValidateOptions(opts ...Option) error {
	return gatherOptions(opts...).err
}

// WithTolTime sets the duration threshold.
//
//	x ≥ 0: accepted
//	x < 0 or NaN/Inf: ErrOptionViolation
func WithTolTime(x float64) Option {
	return func(o *Options) {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			o.err = fmt.Errorf("%w: toltime must be finite and ≥ 0 (%v)", ErrOptionViolation, x)
			return
		}
		o.TolTime = x
	}
}

// WithTransIntv sets Δt; it must be finite and > 0.
func WithTransIntv(t float64) Option {
	return func(o *Options) {
		if !validInterval(t) {
			o.err = fmt.Errorf("%w: %w (%v)", ErrOptionViolation, ErrBadInterval, t)
			return
		}
		o.TransIntv = t
	}
}

// WithPolicy selects Strict or Tolerant for policy-neutral calls.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		if p != Strict && p != Tolerant {
			o.err = fmt.Errorf("%w: unknown policy %d", ErrOptionViolation, int(p))
			return
		}
		o.Policy = p
	}
}

// WithDataCheck toggles DataCheck before strict aggregation.
func WithDataCheck(on bool) Option {
	return func(o *Options) { o.DataCheck = on }
}

// WithErrorCheck toggles ErrorCheck after strict aggregation.
func WithErrorCheck(on bool) Option {
	return func(o *Options) { o.ErrorCheck = on }
}

// WithChecks toggles both strict checks at once.
func WithChecks(on bool) Option {
	return func(o *Options) {
		o.DataCheck = on
		o.ErrorCheck = on
	}
}

// WithDiagnostics selects the warning handling mode.
func WithDiagnostics(m DiagnosticsMode) Option {
	return func(o *Options) {
		switch m {
		case DiagnosticsCollect, DiagnosticsRaise, DiagnosticsSilent:
			o.Diagnostics = m
		default:
			o.err = fmt.Errorf("%w: unknown diagnostics mode %d", ErrOptionViolation, int(m))
		}
	}
}

// WithLogger sets the logger for collected warnings; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithWorkers sets the number of aggregation workers.
//
//	n > 1: concurrent aggregation over n contiguous chunks
//	n == 0 or 1: sequential
//	n < 0: ErrOptionViolation
func WithWorkers(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: workers cannot be negative (%d)", ErrOptionViolation, n)
		case n == 0:
			o.Workers = DefaultWorkers
		default:
			o.Workers = n
		}
	}
}

// validInterval reports whether t is finite and strictly positive.
func validInterval(t float64) bool {
	return t > 0 && !math.IsInf(t, 1)
}
