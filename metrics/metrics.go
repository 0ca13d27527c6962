// Package metrics exposes prometheus metrics of the federator passes.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "federator"

	// pass status label values
	PassSuccess  = "success"
	PassNoWork   = "nowork"
	PassRetry    = "retry"
	PassFatal    = "fatal"
	PassCanceled = "canceled"

	// vote outcome label values
	VoteSent         = "voted"
	VoteProcessed    = "processed"
	VoteAlreadyVoted = "already_voted"
)

type Metrics struct {
	passes       *prometheus.CounterVec
	fatal        prometheus.Counter
	votes        *prometheus.CounterVec
	events       prometheus.Counter
	checkpoint   prometheus.Gauge
	passDuration prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "passes_total",
			Help:      "Pass attempts by final status",
		}, []string{"status"}),
		fatal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "fatal_total",
			Help:      "Runs that gave up after a fatal failure",
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "votes_total",
			Help:      "Cross events by vote decision",
		}, []string{"outcome"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Cross events fetched from the source chain",
		}),
		checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "checkpoint_height",
			Help:      "Last fully processed source block",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a pass attempt",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}

	err := errors.Join(
		reg.Register(m.passes),
		reg.Register(m.fatal),
		reg.Register(m.votes),
		reg.Register(m.events),
		reg.Register(m.checkpoint),
		reg.Register(m.passDuration),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// PassFinished records the outcome and duration of one attempt.
func (m *Metrics) PassFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(status).Inc()
	m.passDuration.Observe(d.Seconds())
}

func (m *Metrics) Fatal() {
	if m == nil {
		return
	}
	m.fatal.Inc()
}

func (m *Metrics) EventsFetched(n int) {
	if m == nil {
		return
	}
	m.events.Add(float64(n))
}

func (m *Metrics) Vote(outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CheckpointSaved(height uint64) {
	if m == nil {
		return
	}
	m.checkpoint.Set(float64(height))
}
