// SPDX-License-Identifier: MIT
// Package ctmc: pipeline entry points.

package ctmc

const (
	opFit         = "Fit"
	opFitTolerant = "FitTolerant"
	opEstimate    = "Estimate"
)

// Fit runs the strict pipeline:
//
//	DataCheck (WithDataCheck) → strict aggregation → ErrorCheck (WithErrorCheck)
//	→ strict generator → exp(genmat·TransIntv)
//
// Both checks are on by default; WithChecks(false) disables them, in which
// case a degenerate state surfaces as matrix.ErrNaNInf from the exponential.
// No partial result is returned on failure.
func Fit(data Dataset, numstates int, opts ...Option) (*Result, error) {
	return run(opFit, Strict, data, numstates, opts)
}

// FitTolerant runs the tolerant pipeline:
//
//	tolerant aggregation → tolerant generator → exp(genmat·TransIntv)
//
// Malformed input never fails the call; each skipped unit is a Warning handled
// by the diagnostics mode. Only the exponential (or DiagnosticsRaise, or an
// invalid option) can fail.
func FitTolerant(data Dataset, numstates int, opts ...Option) (*Result, error) {
	return run(opFitTolerant, Tolerant, data, numstates, opts)
}

// Estimate dispatches to Fit or FitTolerant according to WithPolicy.
func Estimate(data Dataset, numstates int, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, ctmcErrorf(opEstimate, o.err)
	}
	if o.Policy == Tolerant {
		return FitTolerant(data, numstates, opts...)
	}

	return Fit(data, numstates, opts...)
}

// run is the shared pipeline; policy decides which checks apply and how the
// aggregation and generator sites react to bad data.
func run(op string, p Policy, data Dataset, numstates int, opts []Option) (*Result, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, ctmcErrorf(op, o.err)
	}
	o.Policy = p
	d := newDiagnostics(o)

	if p == Strict && o.DataCheck {
		if err := DataCheck(data, numstates, o.TolTime); err != nil {
			return nil, ctmcErrorf(op, err)
		}
	}

	st, err := aggregate(data, numstates, o, d)
	if err != nil {
		return nil, ctmcErrorf(op, err)
	}

	if p == Strict && o.ErrorCheck {
		if err = ErrorCheck(st.TransCount, st.StateTime, o.TolTime); err != nil {
			return nil, ctmcErrorf(op, err)
		}
	}

	genmat, err := generator(st.TransCount, st.StateTime, o, d)
	if err != nil {
		return nil, ctmcErrorf(op, err)
	}

	transmat, err := TransitionMatrix(genmat, o.TransIntv)
	if err != nil {
		return nil, ctmcErrorf(op, err)
	}

	return &Result{
		TransMat:   transmat,
		GenMat:     genmat,
		TransCount: st.TransCount,
		StateTime:  st.StateTime,
		Warnings:   d.collected(),
		Policy:     p,
		TolTime:    o.TolTime,
		TransIntv:  o.TransIntv,
	}, nil
}
