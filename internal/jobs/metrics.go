// Package jobmetrics instruments background job runs.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Metrics holds the per-job collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	items       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

var defaultMetrics = sync.OnceValue(func() *Metrics {
	return register(prometheus.DefaultRegisterer)
})

// NewMetrics registers the job collectors. A nil registerer shares one set on
// the default Prometheus registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return defaultMetrics()
	}
	return register(registerer)
}

// Run measures one execution of a job.
type Run struct {
	m       *Metrics
	job     string
	started time.Time
}

// Start begins measuring a run of job.
func (m *Metrics) Start(job string) *Run {
	return &Run{m: m, job: job, started: time.Now()}
}

// Finish records the outcome and returns err unchanged. On success items is
// published as the size of what the run stored, e.g. products cached by a
// warmup.
func (r *Run) Finish(items int, err error) error {
	if r == nil || r.m == nil || r.job == "" {
		return err
	}
	elapsed := time.Since(r.started).Seconds()
	r.m.duration.WithLabelValues(r.job).Observe(elapsed)
	if err != nil {
		r.m.runs.WithLabelValues(r.job, statusFailure).Inc()
		r.m.failures.WithLabelValues(r.job).Inc()
		return err
	}
	r.m.runs.WithLabelValues(r.job, statusSuccess).Inc()
	r.m.items.WithLabelValues(r.job).Set(float64(items))
	r.m.lastSuccess.WithLabelValues(r.job).SetToCurrentTime()
	return nil
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogview_jobs_total",
			Help: "Job executions by job name and status.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogview_jobs_failures_total",
			Help: "Failed job executions.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogview_job_duration_seconds",
			Help:    "Job execution time.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalogview_job_items",
			Help: "Products stored by the last successful run.",
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalogview_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}, []string{"job"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.items, m.lastSuccess)
	return m
}
