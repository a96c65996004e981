package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/internal/store"
)

const dataset = `numstates: 2
labels: [up, down]
examples:
  - states: [0, 1, 0]
    durations: [1, 1, 1]
  - states: [1, 0]
    durations: [2, 1]
`

const csvPanel = `id,date,label
a,2020-01-01,AAA
a,2021-01-01,AA
a,2022-01-01,AA
a,2023-01-01,A
b,2020-01-01,AA
b,2024-01-01,A
`

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFitPrintsRun(t *testing.T) {
	data := writeFile(t, "data.yaml", dataset)

	out, _, err := execute(t, "fit", "--data", data, "--interval", "2")
	require.NoError(t, err)

	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.Empty(t, run.ID)
	require.Equal(t, "strict", run.Policy)
	require.Equal(t, 2, run.NumStates)
	require.Equal(t, 2.0, run.TransIntv)
	require.Equal(t, []string{"up", "down"}, run.Labels)
	require.Equal(t, [][]int{{0, 1}, {2, 0}}, run.TransCount)
	require.Equal(t, []float64{3, 3}, run.StateTime)

	rows := run.GenMat.ToRows()
	require.InDeltaSlice(t, []float64{-1.0 / 3, 1.0 / 3}, rows[0], 1e-12)
	require.InDeltaSlice(t, []float64{2.0 / 3, -2.0 / 3}, rows[1], 1e-12)
}

func TestFitStrictFailsWhereTolerantWarns(t *testing.T) {
	data := writeFile(t, "dirty.yaml", `examples:
  - states: [0, 0, 1]
    durations: [1, 1, 1]
  - states: [1, 0]
    durations: [1, 1]
`)

	_, _, err := execute(t, "fit", "--data", data)
	require.ErrorIs(t, err, ctmc.ErrRepeatedState)

	out, stderr, err := execute(t, "fit", "--data", data, "--policy", "tolerant")
	require.NoError(t, err)
	require.Contains(t, stderr, "level=WARN")

	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.Equal(t, "tolerant", run.Policy)
	require.NotEmpty(t, run.Warnings)

	_, _, err = execute(t, "fit", "--data", data, "--policy", "tolerant", "--diagnostics", "raise")
	require.ErrorIs(t, err, ctmc.ErrRepeatedState)
}

func TestFitMetricsFile(t *testing.T) {
	data := writeFile(t, "data.yaml", dataset)
	prom := filepath.Join(t.TempDir(), "ctmcfit.prom")

	_, _, err := execute(t, "fit", "--data", data, "--metrics-file", prom)
	require.NoError(t, err)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(b), `ctmcfit_fit_total{policy="strict",result="ok"} 1`)
	require.Contains(t, string(b), "ctmcfit_states 2")
}

func TestFitFlagValidation(t *testing.T) {
	data := writeFile(t, "data.yaml", dataset)

	_, _, err := execute(t, "fit")
	require.Error(t, err)

	_, _, err = execute(t, "fit", "--data", data, "--policy", "lenient")
	require.Error(t, err)

	_, _, err = execute(t, "fit", "--data", data, "--interval", "-1")
	require.ErrorIs(t, err, ctmc.ErrOptionViolation)

	_, _, err = execute(t, "fit", "--data", data, "--panel", data)
	require.Error(t, err)
}

func TestFitConfigFile(t *testing.T) {
	data := writeFile(t, "data.yaml", dataset)
	cfg := writeFile(t, "ctmcfit.yaml", "fit:\n  policy: tolerant\n  transintv: 0.5\n")

	out, _, err := execute(t, "--config", cfg, "fit", "--data", data)
	require.NoError(t, err)

	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.Equal(t, "tolerant", run.Policy)
	require.Equal(t, 0.5, run.TransIntv)
}

func TestCheck(t *testing.T) {
	data := writeFile(t, "data.yaml", dataset)
	out, _, err := execute(t, "check", "--data", data)
	require.NoError(t, err)
	require.Equal(t, "ok: 2 examples, 2 states\n", out)

	bad := writeFile(t, "bad.yaml", "numstates: 2\nexamples:\n  - states: [0, 2]\n    durations: [1, 1]\n")
	_, _, err = execute(t, "check", "--data", bad)
	require.ErrorIs(t, err, ctmc.ErrStateOutOfRange)
}

func TestTransform(t *testing.T) {
	csv := writeFile(t, "panel.csv", csvPanel)

	out, _, err := execute(t, "transform", "--panel", csv)
	require.NoError(t, err)

	f, err := ctmc.ReadDataset(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Equal(t, 8, f.NumStates)
	require.Len(t, f.Examples, 2)
	require.Equal(t, []int{0, 1, 2}, f.Examples[0].States)
	require.Equal(t, []int{1, 2}, f.Examples[1].States)
	require.Equal(t, 0.0, f.Examples[1].Durations[1])
	require.InDeltaSlice(t, []float64{1, 2, 1}, f.Examples[0].Durations, 1e-15)

	// a's last spell stops at its own last row (2023) instead of the table end (2024)
	out, _, err = execute(t, "transform", "--panel", csv, "--subject-end")
	require.NoError(t, err)
	f, err = ctmc.ReadDataset(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 0}, f.Examples[0].Durations, 1e-15)

	out, _, err = execute(t, "transform", "--panel", csv, "--labels", "AAA,AA,A")
	require.NoError(t, err)
	f, err = ctmc.ReadDataset(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Equal(t, []string{"AAA", "AA", "A"}, f.Labels)

	_, _, err = execute(t, "transform", "--panel", csv, "--labels", "AAA,AA")
	require.Error(t, err)
}

func TestFitPanelTolerant(t *testing.T) {
	csv := writeFile(t, "panel.csv", csvPanel)

	out, _, err := execute(t, "fit", "--panel", csv, "--labels", "AAA,AA,A", "--policy", "tolerant")
	require.NoError(t, err)

	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.Equal(t, 3, run.NumStates)
	require.Equal(t, 1, run.TransCount[0][1])
	require.Equal(t, 1, run.TransCount[1][2])
	require.NotEmpty(t, run.Warnings)
}

func TestRunsLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	data := writeFile(t, "data.yaml", dataset)

	out, _, err := execute(t, "--db", db, "fit", "--data", data, "--save")
	require.NoError(t, err)
	var saved store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	require.NotEmpty(t, saved.ID)

	out, _, err = execute(t, "--db", db, "runs", "list")
	require.NoError(t, err)
	var runs []store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	require.Equal(t, saved.ID, runs[0].ID)

	out, _, err = execute(t, "--db", db, "runs", "show", saved.ID)
	require.NoError(t, err)
	var shown store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	require.Equal(t, saved.TransCount, shown.TransCount)

	out, _, err = execute(t, "--db", db, "runs", "project", saved.ID, "--interval", "0")
	require.ErrorIs(t, err, ctmc.ErrBadInterval)
	require.Empty(t, out)

	out, _, err = execute(t, "--db", db, "runs", "project", saved.ID, "--interval", "1")
	require.NoError(t, err)
	var proj struct {
		ID        string      `json:"id"`
		TransIntv float64     `json:"transintv"`
		TransMat  [][]float64 `json:"transmat"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &proj))
	require.Equal(t, saved.ID, proj.ID)
	want := saved.TransMat.ToRows()
	for i := range want {
		require.InDeltaSlice(t, want[i], proj.TransMat[i], 1e-12)
	}

	out, _, err = execute(t, "--db", db, "runs", "project", saved.ID, "--interval", "4")
	require.NoError(t, err)
	var exact struct {
		TransMat [][]float64 `json:"transmat"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &exact))

	out, _, err = execute(t, "--db", db, "runs", "project", saved.ID, "--steps", "4")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &proj))
	require.Equal(t, 4.0, proj.TransIntv)
	for i := range exact.TransMat {
		require.InDeltaSlice(t, exact.TransMat[i], proj.TransMat[i], 1e-9)
	}

	_, _, err = execute(t, "--db", db, "runs", "project", saved.ID, "--steps", "2", "--interval", "2")
	require.Error(t, err)

	out, _, err = execute(t, "--db", db, "runs", "classify", saved.ID)
	require.NoError(t, err)
	require.JSONEq(t, `{"absorbing":null,"transient":null,"reachable":[[0,1],[0,1]]}`, out)

	out, _, err = execute(t, "--db", db, "runs", "stationary", saved.ID)
	require.NoError(t, err)
	var st struct {
		Labels     []string  `json:"labels"`
		Stationary []float64 `json:"stationary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.Equal(t, []string{"up", "down"}, st.Labels)
	require.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, st.Stationary, 1e-12)

	_, _, err = execute(t, "--db", db, "runs", "show", "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDBPathFromEnv(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("CTMCFIT_DB", db)

	out, _, err := execute(t, "runs", "list")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, out)

	_, err = os.Stat(db)
	require.NoError(t, err)
}
