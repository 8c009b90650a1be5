package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for catalog fetches.
type Metrics struct {
	fetches   *prometheus.CounterVec
	duration  prometheus.Histogram
	cacheHit  prometheus.Counter
	cacheMiss prometheus.Counter
	products  prometheus.Gauge
}

// NewMetrics registers the catalog collectors against the registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogview_catalog_fetch_total",
			Help: "Catalog fetches partitioned by outcome.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalogview_catalog_fetch_duration_seconds",
			Help:    "Duration of catalog fetches including cache lookups.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogview_catalog_cache_hits_total",
			Help: "Catalog snapshots served from Redis.",
		}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogview_catalog_cache_miss_total",
			Help: "Catalog snapshots loaded from the upstream endpoint.",
		}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalogview_catalog_products",
			Help: "Number of products held by the current snapshot.",
		}),
	}
	registerer.MustRegister(m.fetches, m.duration, m.cacheHit, m.cacheMiss, m.products)
	return m
}

func (m *Metrics) observeFetch(err error, count int, hit bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.fetches.WithLabelValues(result).Inc()
	m.duration.Observe(took.Seconds())
	if err != nil {
		return
	}
	if hit {
		m.cacheHit.Inc()
	} else {
		m.cacheMiss.Inc()
	}
	m.products.Set(float64(count))
}
