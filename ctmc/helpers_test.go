// SPDX-License-Identifier: MIT
// Package ctmc_test contains shared fixtures for the pipeline tests.
package ctmc_test

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/matrix"
)

// quiet discards warning logs in tests that do not inspect them.
var quiet = ctmc.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// ex is shorthand for a single example.
func ex(states []int, durations ...float64) ctmc.Example {
	return ctmc.Example{States: states, Durations: durations}
}

// ones returns n durations of 1.
func ones(n int) []float64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}

	return d
}

// cleanDataset builds m clean examples over n states: no repeats, durations
// in [0.1, 2.1), and one final example visiting every state.
func cleanDataset(seed int64, m, n int) ctmc.Dataset {
	rng := rand.New(rand.NewSource(seed))
	data := make(ctmc.Dataset, 0, m+1)
	for k := 0; k < m; k++ {
		l := 2 + rng.Intn(7)
		states := make([]int, l)
		durs := make([]float64, l)
		states[0] = rng.Intn(n)
		for i := 1; i < l; i++ {
			states[i] = (states[i-1] + 1 + rng.Intn(n-1)) % n
		}
		for i := range durs {
			durs[i] = 0.1 + 2*rng.Float64()
		}
		data = append(data, ctmc.Example{States: states, Durations: durs})
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	return append(data, ctmc.Example{States: all, Durations: ones(n)})
}

// dirtyDataset sprinkles every defect the tolerant policy handles into a
// clean dataset.
func dirtyDataset(seed int64, m, n int) ctmc.Dataset {
	rng := rand.New(rand.NewSource(seed))
	data := cleanDataset(seed, m, n)
	for k := range data {
		switch rng.Intn(8) {
		case 0:
			data[k].Durations[0] = 0
		case 1:
			data[k].States = []int{data[k].States[0], data[k].States[0]}
			data[k].Durations = ones(2)
		case 2:
			data[k].States[len(data[k].States)-1] = n + 3
		case 3:
			data[k].States[1] = data[k].States[0]
		case 4:
			data[k].Durations = data[k].Durations[:1]
		}
	}

	return data
}

// rows reads m into [][]float64.
func rows(t *testing.T, m matrix.Matrix) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			v, err := m.At(i, j)
			require.NoError(t, err)
			out[i][j] = v
		}
	}

	return out
}

// requireRowsInDelta compares matrices element-wise within delta.
func requireRowsInDelta(t *testing.T, want [][]float64, m matrix.Matrix, delta float64) {
	t.Helper()
	got := rows(t, m)
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaSlice(t, want[i], got[i], delta, "row %d", i)
	}
}
