package scheduler

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for expiry sweep runs.
type Metrics struct {
	runs     *prometheus.CounterVec
	expired  prometheus.Counter
	skipped  prometheus.Counter
	failed   prometheus.Counter
	duration prometheus.Histogram
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the sweep metrics against registerer, or against the
// default registerer once per process when registerer is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotation_expiry_sweep_runs_total",
			Help: "Expiry sweep executions partitioned by outcome.",
		}, []string{"status"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotation_expiry_sweep_expired_total",
			Help: "Quotations moved to EXPIRED by the sweep.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotation_expiry_sweep_skipped_total",
			Help: "Matched quotations that changed before the sweep could expire them.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotation_expiry_sweep_failed_total",
			Help: "Matched quotations the sweep failed to expire.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotation_expiry_sweep_duration_seconds",
			Help:    "Duration in seconds of expiry sweep runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registerer.MustRegister(m.runs, m.expired, m.skipped, m.failed, m.duration)
	return m
}

func (m *Metrics) observe(expired, skipped, failed int, err error, took time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs.WithLabelValues(status).Inc()
	m.expired.Add(float64(expired))
	m.skipped.Add(float64(skipped))
	m.failed.Add(float64(failed))
	m.duration.Observe(took.Seconds())
}
