// Package observability provides prometheus collectors and tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propertyadda_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StorageQueryLatency records store operation latency by operation and entity.
	StorageQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propertyadda_storage_query_latency_seconds",
		Help:    "Storage operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "entity"})

	// SessionsIssued counts sessions created by login.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propertyadda_sessions_issued_total",
		Help: "Total number of login sessions issued",
	})

	// SessionsDestroyed counts sessions removed by logout or invalidation.
	SessionsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propertyadda_sessions_destroyed_total",
		Help: "Total number of login sessions destroyed",
	})
)

// TrackQuery returns a function that records store operation latency when
// called, intended for use with defer.
func TrackQuery(operation, entity string) func() {
	start := time.Now()
	return func() {
		StorageQueryLatency.WithLabelValues(operation, entity).Observe(time.Since(start).Seconds())
	}
}
