// Package store persists fitted CTMC runs and their matrices.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/matrix"
)

// ErrNotFound is returned by Get when no run has the requested id.
var ErrNotFound = errors.New("store: run not found")

// Run is one persisted estimation: the settings it ran with and its outputs.
type Run struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Policy    string   `json:"policy"`
	NumStates int      `json:"numstates"`
	TolTime   float64  `json:"toltime"`
	TransIntv float64  `json:"transintv"`
	Labels    []string `json:"labels,omitempty"`

	GenMat     *matrix.Dense  `json:"genmat"`
	TransMat   *matrix.Dense  `json:"transmat"`
	TransCount [][]int        `json:"transcount"`
	StateTime  []float64      `json:"statetime"`
	Warnings   []ctmc.Warning `json:"warnings,omitempty"`
}

// RunFromResult copies a fit result into a Run ready to be saved or printed.
// labels names the states and may be nil.
func RunFromResult(res *ctmc.Result, labels []string) *Run {
	return &Run{
		Policy:     res.Policy.String(),
		NumStates:  len(res.StateTime),
		TolTime:    res.TolTime,
		TransIntv:  res.TransIntv,
		Labels:     labels,
		GenMat:     res.GenMat,
		TransMat:   res.TransMat,
		TransCount: res.TransCount,
		StateTime:  res.StateTime,
		Warnings:   res.Warnings,
	}
}

// Result rebuilds the ctmc.Result so a stored run can be re-projected.
// Warning sentinels are not persisted; only their messages survive.
func (r *Run) Result() (*ctmc.Result, error) {
	policy, err := ctmc.ParsePolicy(r.Policy)
	if err != nil {
		return nil, err
	}
	return &ctmc.Result{
		TransMat:   r.TransMat,
		GenMat:     r.GenMat,
		TransCount: r.TransCount,
		StateTime:  r.StateTime,
		Warnings:   r.Warnings,
		Policy:     policy,
		TolTime:    r.TolTime,
		TransIntv:  r.TransIntv,
	}, nil
}

// Store defines the run storage interface.
type Store interface {
	// Save assigns an id and creation time to r and inserts it.
	Save(ctx context.Context, r *Run) error

	// Get retrieves a run by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the newest runs first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Run, error)

	// Close closes the store.
	Close() error
}
