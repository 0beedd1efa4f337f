// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus metrics for the MARS remote backend.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exercised by the pull path.
type Metrics struct {
	PullsTotal       *prometheus.CounterVec
	PullDuration     prometheus.Histogram
	PullRetriesTotal prometheus.Counter
	StagedBytes      prometheus.Counter
	JobsInFlight     prometheus.Gauge
}

var (
	once   sync.Once
	shared *Metrics
)

// Default returns the process-wide metrics set, registered with the default
// registry on first use.
func Default() *Metrics {
	once.Do(func() {
		shared = New(nil)
	})

	return shared
}

// New creates the metrics set. A nil registerer uses promauto's default.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}

	return &Metrics{
		PullsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecmwfmars_pulls_total",
				Help: "Total number of remote pulls by outcome",
			},
			[]string{"status"},
		),
		PullDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ecmwfmars_pull_duration_seconds",
				Help:    "Duration of remote pulls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
			},
		),
		PullRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ecmwfmars_pull_retries_total",
				Help: "Total number of transient-failure retries across pulls",
			},
		),
		StagedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ecmwfmars_staged_bytes_total",
				Help: "Total bytes staged from the MARS service",
			},
		),
		JobsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ecmwfmars_jobs_in_flight",
				Help: "Number of MARS jobs currently submitted or polling",
			},
		),
	}
}

// ObservePull records one completed pull.
func (m *Metrics) ObservePull(status string, started time.Time, bytes int64) {
	m.PullsTotal.WithLabelValues(status).Inc()
	m.PullDuration.Observe(time.Since(started).Seconds())

	if bytes > 0 {
		m.StagedBytes.Add(float64(bytes))
	}
}
