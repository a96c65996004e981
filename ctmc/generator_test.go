// SPDX-License-Identifier: MIT
package ctmc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/matrix"
)

// TestGeneratorMatrix checks rates on a hand-computed example.
func TestGeneratorMatrix(t *testing.T) {
	g, warns, err := ctmc.GeneratorMatrix([][]int{{0, 1}, {1, 0}}, []float64{2, 1})
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Equal(t, [][]float64{{-0.5, 0.5}, {1, -1}}, rows(t, g))
	require.NoError(t, matrix.ValidateGenerator(g, 1e-12))

	// three states, uneven exposure
	g, _, err = ctmc.GeneratorMatrix([][]int{{0, 3, 1}, {2, 0, 0}, {0, 4, 0}}, []float64{4, 2, 8})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{-1, 0.75, 0.25}, {1, -1, 0}, {0, 0.5, -0.5}}, rows(t, g))

	// a state that never leaves keeps a +0 diagonal
	g, _, err = ctmc.GeneratorMatrix([][]int{{0, 0}, {1, 0}}, []float64{1, 1})
	require.NoError(t, err)
	v, _ := g.At(0, 0)
	require.Zero(t, v)
	require.False(t, math.Signbit(v))
}

// TestGeneratorStrictDegenerate: an unobserved state yields a NaN row.
func TestGeneratorStrictDegenerate(t *testing.T) {
	g, warns, err := ctmc.GeneratorMatrix([][]int{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}}, []float64{2, 1, 0})
	require.NoError(t, err)
	require.Empty(t, warns)
	for j := 0; j < 3; j++ {
		v, _ := g.At(2, j)
		require.True(t, math.IsNaN(v), "genmat[2][%d]=%v", j, v)
	}
	require.ErrorIs(t, matrix.ValidateFinite(g), matrix.ErrNaNInf)

	// a count with zero exposure divides to ±Inf
	g, _, err = ctmc.GeneratorMatrix([][]int{{0, 1}, {0, 0}}, []float64{0, 1})
	require.NoError(t, err)
	v, _ := g.At(0, 1)
	require.True(t, math.IsInf(v, 1))
	v, _ = g.At(0, 0)
	require.True(t, math.IsInf(v, -1))
}

// TestGeneratorTolerant: zero rows and diagonal reset, each with a warning.
func TestGeneratorTolerant(t *testing.T) {
	g, warns, err := ctmc.GeneratorMatrix(
		[][]int{{0, 1, 0}, {1, 2, 0}, {0, 0, 0}},
		[]float64{2, 1, 0},
		ctmc.WithPolicy(ctmc.Tolerant), quiet,
	)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{-0.5, 0.5, 0}, {1, -1, 0}, {0, 0, 0}}, rows(t, g))
	require.NoError(t, matrix.ValidateGenerator(g, 1e-12))

	require.Len(t, warns, 2)
	require.ErrorIs(t, warns[0], ctmc.ErrNonZeroDiagonal)
	require.Equal(t, 1, warns[0].State)
	require.ErrorIs(t, warns[1], ctmc.ErrShortStateTime)
	require.Equal(t, 2, warns[1].State)
	require.Equal(t, -1, warns[1].Example)

	_, _, err = ctmc.GeneratorMatrix([][]int{{0, 0}, {0, 0}}, []float64{1, 0},
		ctmc.WithPolicy(ctmc.Tolerant), ctmc.WithDiagnostics(ctmc.DiagnosticsRaise))
	require.ErrorIs(t, err, ctmc.ErrShortStateTime)
}

// TestGeneratorShape rejects inconsistent statistics.
func TestGeneratorShape(t *testing.T) {
	_, _, err := ctmc.GeneratorMatrix([][]int{{0, 1}}, []float64{1, 1})
	require.ErrorIs(t, err, ctmc.ErrShapeMismatch)
	_, _, err = ctmc.GeneratorMatrix(nil, nil)
	require.ErrorIs(t, err, ctmc.ErrShapeMismatch)
}

// TestGeneratorInvariants: rows sum to zero, off-diagonals are non-negative.
func TestGeneratorInvariants(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		data := dirtyDataset(seed, 80, 5)
		st, err := ctmc.AggregateEvents(data, 5, ctmc.WithPolicy(ctmc.Tolerant), quiet)
		require.NoError(t, err)

		g, _, err := ctmc.GeneratorMatrix(st.TransCount, st.StateTime, ctmc.WithPolicy(ctmc.Tolerant), quiet)
		require.NoError(t, err)
		require.NoError(t, matrix.ValidateGenerator(g, 1e-9), "seed=%d", seed)

		sums, err := matrix.RowSums(g)
		require.NoError(t, err)
		for i, s := range sums {
			require.InDelta(t, 0, s, 1e-9, "row %d", i)
		}
	}
}
