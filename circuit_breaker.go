package nntp

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// NewCircuitBreaker returns a circuit breaker suitable for
// PoolConfig.CircuitBreaker. The breaker opens once at least 3 requests
// have been seen in the interval and 60% of them failed; after timeout it
// half-opens and admits maxRequests probes.
func NewCircuitBreaker(name string, maxRequests uint32, interval, timeout time.Duration) *gobreaker.CircuitBreaker[bool] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
	return gobreaker.NewCircuitBreaker[bool](settings)
}
