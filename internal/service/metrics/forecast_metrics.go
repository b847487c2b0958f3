package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ForecastLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricecast",
			Subsystem: "forecast",
			Name:      "latency_seconds",
			Help:      "Latency of forecast computation by strategy",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	ForecastRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricecast",
			Subsystem: "forecast",
			Name:      "requests_total",
			Help:      "Forecast requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	ForecastFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pricecast",
			Subsystem: "forecast",
			Name:      "fallbacks_total",
			Help:      "Autoregressive fits that degraded to the polynomial trend model",
		},
	)

	ForecastCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricecast",
			Subsystem: "forecast",
			Name:      "cache_events_total",
			Help:      "Forecast cache hits and misses",
		},
		[]string{"event"},
	)

	HistoryFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricecast",
			Subsystem: "history",
			Name:      "fetch_latency_seconds",
			Help:      "Latency of daily-bar lookups by source",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ForecastLatency,
			ForecastRequests,
			ForecastFallbacks,
			ForecastCacheHits,
			HistoryFetchLatency,
		)
	})
}
