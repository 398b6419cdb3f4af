// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlifestyle_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "greenlifestyle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InteractionToggles counts like/bookmark/follow toggle operations by kind and direction.
	InteractionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlifestyle_interaction_toggles_total",
		Help: "Total number of interaction toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// ActivityRowsTouched counts daily activity rows created or incremented.
	ActivityRowsTouched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlifestyle_activity_rows_total",
		Help: "Total number of daily activity rows created or updated",
	}, []string{"op"})

	// TipsPublished counts tips created, split by published flag.
	TipsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlifestyle_tips_created_total",
		Help: "Total number of tips created",
	}, []string{"published"})
)

// InitHTTPMetrics creates the fiberprometheus middleware for HTTP metrics.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
