// SPDX-License-Identifier: MIT

package panel

import (
	"sort"
	"time"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

// Panel is a transformed table: Data[k] belongs to subject IDs[k].
type Panel struct {
	IDs  []string
	Data ctmc.Dataset
	// End is the table-wide last date. Final spells end here unless
	// WithSubjectEnd is set.
	End time.Time
}

// TransformOption configures TableTransform.
type TransformOption func(*transformOptions)

type transformOptions struct {
	subjectEnd bool
}

// WithSubjectEnd ends each subject's final spell at that subject's own last
// observation instead of the table-wide last date. A subject whose last
// observation opens a new spell then gets a zero final duration.
func WithSubjectEnd() TransformOption {
	return func(o *transformOptions) { o.subjectEnd = true }
}

// TableTransform converts observations into per-subject sequences.
//
// Implementation:
//   - Stage 1: stable-sort by (ID, Date); subjects come out in ascending ID order.
//   - Stage 2: per subject keep the first observation of each run of equal
//     states (spell starts).
//   - Stage 3: duration of spell k = YearFrac(start_k, start_{k+1}); the last
//     spell ends at the table-wide last date by default, or at the subject's
//     last observation under WithSubjectEnd.
//   - Subjects with fewer than two spells are dropped.
//
// By default a subject that moves on the table's last date gets a zero final
// duration; the strict pipeline rejects it and the tolerant one skips that
// spell. Subjects observed earlier still accrue time up to the table end, as
// if their last rating held until then.
//
// Complexity: O(R log R) for R observations.
func TableTransform(obs []Observation, opts ...TransformOption) *Panel {
	var o transformOptions
	for _, opt := range opts {
		opt(&o)
	}
	p := &Panel{}
	if len(obs) == 0 {
		return p
	}

	sorted := append([]Observation(nil), obs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ID != sorted[j].ID {
			return sorted[i].ID < sorted[j].ID
		}

		return sorted[i].Date.Before(sorted[j].Date)
	})

	p.End = sorted[0].Date
	for _, ob := range sorted {
		if ob.Date.After(p.End) {
			p.End = ob.Date
		}
	}

	var lo, hi int
	for lo = 0; lo < len(sorted); lo = hi {
		for hi = lo + 1; hi < len(sorted) && sorted[hi].ID == sorted[lo].ID; hi++ {
		}
		end := p.End
		if o.subjectEnd {
			end = sorted[hi-1].Date
		}
		if ex, ok := spells(sorted[lo:hi], end); ok {
			p.IDs = append(p.IDs, sorted[lo].ID)
			p.Data = append(p.Data, ex)
		}
	}

	return p
}

// spells collapses one subject's date-sorted observations into an Example.
func spells(obs []Observation, end time.Time) (ctmc.Example, bool) {
	var starts []time.Time
	var ex ctmc.Example
	for k, o := range obs {
		if k > 0 && o.State == obs[k-1].State {
			continue
		}
		starts = append(starts, o.Date)
		ex.States = append(ex.States, o.State)
	}
	if len(starts) < 2 {
		return ctmc.Example{}, false
	}

	ex.Durations = make([]float64, len(starts))
	for k := range starts {
		next := end
		if k+1 < len(starts) {
			next = starts[k+1]
		}
		ex.Durations[k] = YearFrac(starts[k], next)
	}

	return ex, true
}
