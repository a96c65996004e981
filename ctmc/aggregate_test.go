// SPDX-License-Identifier: MIT
package ctmc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

// TestAggregateStrict checks plain counting, including the repeated pair
// that strict aggregation counts on the diagonal.
func TestAggregateStrict(t *testing.T) {
	st, err := ctmc.AggregateEvents(ctmc.Dataset{ex([]int{0, 1, 0}, 1, 1, 1)}, 2)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1}, {1, 0}}, st.TransCount)
	require.Equal(t, []float64{2, 1}, st.StateTime)
	require.Empty(t, st.Warnings)
	require.Equal(t, 2, st.NumStates())

	st, err = ctmc.AggregateEvents(ctmc.Dataset{ex([]int{0, 0, 1}, 1, 1, 1)}, 2)
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 1}, {0, 0}}, st.TransCount)
	require.Equal(t, []float64{2, 1}, st.StateTime)

	_, err = ctmc.AggregateEvents(ctmc.Dataset{ex([]int{0, 1}, 1, 1), ex([]int{0, 9}, 1, 1)}, 2)
	require.ErrorIs(t, err, ctmc.ErrStateOutOfRange)
	var exErr *ctmc.ExampleError
	require.True(t, errors.As(err, &exErr))
	require.Equal(t, 1, exErr.Example)
	require.Equal(t, 1, exErr.Index)

	_, err = ctmc.AggregateEvents(ctmc.Dataset{ex([]int{0, 1}, 1)}, 2)
	require.ErrorIs(t, err, ctmc.ErrLengthMismatch)

	_, err = ctmc.AggregateEvents(nil, 0)
	require.ErrorIs(t, err, ctmc.ErrBadNumStates)
}

// TestAggregateTolerant covers every skip rule.
func TestAggregateTolerant(t *testing.T) {
	tests := []struct {
		name      string
		data      ctmc.Dataset
		n         int
		wantCount [][]int
		wantTime  []float64
		wantWarn  []error
	}{
		{
			name:      "repeated pair keeps time, drops count",
			data:      ctmc.Dataset{ex([]int{0, 0, 1}, 1, 1, 1)},
			n:         2,
			wantCount: [][]int{{0, 1}, {0, 0}},
			wantTime:  []float64{2, 1},
			wantWarn:  []error{ctmc.ErrRepeatedState},
		},
		{
			name:      "short entry drops both edges",
			data:      ctmc.Dataset{ex([]int{0, 1, 2, 0}, 1, 1e-10, 1, 1)},
			n:         3,
			wantCount: [][]int{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}},
			wantTime:  []float64{2, 0, 1},
			wantWarn:  []error{ctmc.ErrShortDuration},
		},
		{
			name:      "single-state example skipped",
			data:      ctmc.Dataset{ex([]int{1, 1}, 1, 1), ex([]int{0, 1}, 1, 1)},
			n:         2,
			wantCount: [][]int{{0, 1}, {0, 0}},
			wantTime:  []float64{1, 1},
			wantWarn:  []error{ctmc.ErrSingleState},
		},
		{
			name:      "out-of-range entry skipped",
			data:      ctmc.Dataset{ex([]int{0, 5, 1}, 1, 1, 1)},
			n:         2,
			wantCount: [][]int{{0, 0}, {0, 0}},
			wantTime:  []float64{1, 1},
			wantWarn:  []error{ctmc.ErrStateOutOfRange},
		},
		{
			name:      "length mismatch skipped",
			data:      ctmc.Dataset{ex([]int{0, 1}, 1), ex([]int{1, 0}, 2, 3)},
			n:         2,
			wantCount: [][]int{{0, 0}, {1, 0}},
			wantTime:  []float64{3, 2},
			wantWarn:  []error{ctmc.ErrLengthMismatch},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st, err := ctmc.AggregateEvents(tc.data, tc.n, ctmc.WithPolicy(ctmc.Tolerant), quiet)
			require.NoError(t, err)
			require.Equal(t, tc.wantCount, st.TransCount)
			require.Equal(t, tc.wantTime, st.StateTime)
			require.Len(t, st.Warnings, len(tc.wantWarn))
			for k, w := range st.Warnings {
				require.ErrorIs(t, w, tc.wantWarn[k])
			}
		})
	}
}

// TestAggregateConservation: on clean data every adjacent pair is one count
// and every duration lands in statetime.
func TestAggregateConservation(t *testing.T) {
	data := cleanDataset(7, 120, 5)
	var pairs int
	var total float64
	for _, e := range data {
		pairs += len(e.States) - 1
		total += floats.Sum(e.Durations)
	}

	for _, p := range []ctmc.Policy{ctmc.Strict, ctmc.Tolerant} {
		st, err := ctmc.AggregateEvents(data, 5, ctmc.WithPolicy(p))
		require.NoError(t, err)
		var counted int
		for i, row := range st.TransCount {
			require.Zero(t, row[i], "diagonal %d", i)
			for _, c := range row {
				counted += c
			}
		}
		require.Equal(t, pairs, counted)
		require.InDelta(t, total, floats.Sum(st.StateTime), 1e-9)
		require.Empty(t, st.Warnings)
	}
}

// TestAggregateWorkers: chunked aggregation matches the sequential run.
func TestAggregateWorkers(t *testing.T) {
	data := dirtyDataset(3, 300, 6)

	seq, err := ctmc.AggregateEvents(data, 6, ctmc.WithPolicy(ctmc.Tolerant), quiet)
	require.NoError(t, err)
	require.NotEmpty(t, seq.Warnings)

	for _, w := range []int{0, 2, 4, 7, 1000} {
		par, err := ctmc.AggregateEvents(data, 6, ctmc.WithPolicy(ctmc.Tolerant), ctmc.WithWorkers(w), quiet)
		require.NoError(t, err, "workers=%d", w)
		require.Equal(t, seq.TransCount, par.TransCount, "workers=%d", w)
		require.InDeltaSlice(t, seq.StateTime, par.StateTime, 1e-9, "workers=%d", w)
		require.Equal(t, seq.Warnings, par.Warnings, "workers=%d", w)
	}

	// strict reports the first out-of-range example in dataset order
	bad := cleanDataset(5, 100, 4)
	bad[10].States[0] = 9
	bad[90].States[0] = 9
	_, err = ctmc.AggregateEvents(bad, 4, ctmc.WithWorkers(4))
	var exErr *ctmc.ExampleError
	require.True(t, errors.As(err, &exErr))
	require.Equal(t, 10, exErr.Example)
}

// TestAggregateDiagnosticsModes covers raise and silent.
func TestAggregateDiagnosticsModes(t *testing.T) {
	data := ctmc.Dataset{
		ex([]int{0, 1}, 1, 1),
		ex([]int{1, 1}, 1, 1),
		ex([]int{0, 0, 1}, 1, 1, 1),
	}

	_, err := ctmc.AggregateEvents(data, 2,
		ctmc.WithPolicy(ctmc.Tolerant), ctmc.WithDiagnostics(ctmc.DiagnosticsRaise))
	require.ErrorIs(t, err, ctmc.ErrSingleState)
	var w ctmc.Warning
	require.True(t, errors.As(err, &w))
	require.Equal(t, 1, w.Example)

	_, err = ctmc.AggregateEvents(data, 2, ctmc.WithPolicy(ctmc.Tolerant),
		ctmc.WithDiagnostics(ctmc.DiagnosticsRaise), ctmc.WithWorkers(3))
	require.True(t, errors.As(err, &w))
	require.Equal(t, 1, w.Example)

	st, err := ctmc.AggregateEvents(data, 2,
		ctmc.WithPolicy(ctmc.Tolerant), ctmc.WithDiagnostics(ctmc.DiagnosticsSilent))
	require.NoError(t, err)
	require.Nil(t, st.Warnings)
	require.Equal(t, [][]int{{0, 2}, {0, 0}}, st.TransCount)
}

// TestOptionViolations: bad options surface as ErrOptionViolation.
func TestOptionViolations(t *testing.T) {
	data := ctmc.Dataset{ex([]int{0, 1}, 1, 1)}
	bad := []ctmc.Option{
		ctmc.WithTolTime(-1),
		ctmc.WithTransIntv(0),
		ctmc.WithWorkers(-2),
		ctmc.WithDiagnostics(ctmc.DiagnosticsMode(42)),
		ctmc.WithPolicy(ctmc.Policy(9)),
	}
	for k, opt := range bad {
		_, err := ctmc.AggregateEvents(data, 2, opt)
		require.ErrorIs(t, err, ctmc.ErrOptionViolation, "option %d", k)
		_, err = ctmc.Fit(data, 2, opt)
		require.ErrorIs(t, err, ctmc.ErrOptionViolation, "option %d", k)
	}

	_, err := ctmc.Fit(data, 2, ctmc.WithTransIntv(-1))
	require.ErrorIs(t, err, ctmc.ErrBadInterval)

	// nil options are ignored
	_, err = ctmc.AggregateEvents(data, 2, nil)
	require.NoError(t, err)
}
