// Package metrics exposes pipeline measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "numwords"

// Metrics implements ports.Recorder on Prometheus collectors.
type Metrics struct {
	linesProcessed prometheus.Counter
	phrasesFound   prometheus.Counter
	recordsEmitted prometheus.Counter
	oracleCalls    *prometheus.CounterVec
	oracleLatency  prometheus.Histogram
}

// New registers the collectors with reg. A nil reg selects the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		linesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_processed_total",
			Help:      "Total number of lines run through the pipeline",
		}),
		phrasesFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_phrases_total",
			Help:      "Total number of candidate number phrases grouped",
		}),
		recordsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Total number of oracle-confirmed records",
		}),
		oracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Total number of oracle calls by outcome",
		}, []string{"outcome"}),
		oracleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_latency_seconds",
			Help:      "Time taken by oracle calls",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}

// LineProcessed implements ports.Recorder.
func (m *Metrics) LineProcessed() { m.linesProcessed.Inc() }

// PhrasesFound implements ports.Recorder.
func (m *Metrics) PhrasesFound(n int) { m.phrasesFound.Add(float64(n)) }

// RecordsEmitted implements ports.Recorder.
func (m *Metrics) RecordsEmitted(n int) { m.recordsEmitted.Add(float64(n)) }

// OracleCall implements ports.Recorder.
func (m *Metrics) OracleCall(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.oracleCalls.WithLabelValues(outcome).Inc()
	m.oracleLatency.Observe(d.Seconds())
}
