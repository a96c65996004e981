// Package metrics records fit runs as Prometheus metrics.
//
// ctmcfit is a batch tool, so nothing is served: a run writes its registry in
// the text exposition format for a node_exporter textfile collector.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

// Recorder owns a private registry and the fit metrics registered on it.
type Recorder struct {
	reg *prometheus.Registry

	fitTotal    *prometheus.CounterVec
	fitDuration *prometheus.HistogramVec
	examples    prometheus.Counter
	warnings    *prometheus.CounterVec
	states      prometheus.Gauge
}

// NewRecorder registers the fit metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		fitTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ctmcfit_fit_total",
			Help: "Fit runs by policy and result",
		}, []string{"policy", "result"}),
		fitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ctmcfit_fit_duration_seconds",
			Help:    "Fit duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"policy"}),
		examples: f.NewCounter(prometheus.CounterOpts{
			Name: "ctmcfit_examples_total",
			Help: "Examples fed into fit runs",
		}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ctmcfit_warnings_total",
			Help: "Tolerant-policy warnings by kind",
		}, []string{"kind"}),
		states: f.NewGauge(prometheus.GaugeOpts{
			Name: "ctmcfit_states",
			Help: "Number of states of the last fit",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveFit records one run. res may be nil when err is not.
func (r *Recorder) ObserveFit(policy ctmc.Policy, examples, numstates int, took time.Duration, res *ctmc.Result, err error) {
	p := policy.String()
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fitTotal.WithLabelValues(p, result).Inc()
	r.fitDuration.WithLabelValues(p).Observe(took.Seconds())
	r.examples.Add(float64(examples))
	r.states.Set(float64(numstates))
	if res == nil {
		return
	}
	for _, w := range res.Warnings {
		r.warnings.WithLabelValues(Kind(w.Err)).Inc()
	}
}

// WriteFile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// Kind names the ctmc sentinel behind err for use as a label value.
func Kind(err error) string {
	switch {
	case errors.Is(err, ctmc.ErrStateOutOfRange):
		return "state_out_of_range"
	case errors.Is(err, ctmc.ErrSingleState):
		return "single_state"
	case errors.Is(err, ctmc.ErrRepeatedState):
		return "repeated_state"
	case errors.Is(err, ctmc.ErrShortDuration):
		return "short_duration"
	case errors.Is(err, ctmc.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ctmc.ErrNonZeroDiagonal):
		return "nonzero_diagonal"
	case errors.Is(err, ctmc.ErrShortStateTime):
		return "short_state_time"
	default:
		return "other"
	}
}
