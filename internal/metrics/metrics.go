// Package metrics exposes Prometheus collectors for the HTTP API, the Kakao
// client and the domain operations. Collectors register on the default
// registry and are served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "massi5_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "massi5_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"scope"},
	)

	// Domain Metrics
	LunchRecordsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "massi5_lunch_records_created_total",
			Help: "Total number of lunch records created",
		},
	)

	ReactionToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_reaction_toggles_total",
			Help: "Reaction mutations by outcome (set, removed, updated)",
		},
		[]string{"result"},
	)

	ReactionConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "massi5_reaction_conflict_retries_total",
			Help: "Reaction toggles retried after a concurrent insert won the unique constraint",
		},
	)

	UserCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_user_cache_lookups_total",
			Help: "User cache lookups by outcome (hit, miss)",
		},
		[]string{"outcome"},
	)

	// Kakao Metrics
	KakaoRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_kakao_requests_total",
			Help: "Kakao API calls by operation and outcome (success, failure, rejected)",
		},
		[]string{"operation", "outcome"},
	)

	KakaoRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "massi5_kakao_request_duration_seconds",
			Help:    "Kakao API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "massi5_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "massi5_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by a limiter scope.
func RecordRateLimitHit(scope string) {
	APIRateLimitHits.WithLabelValues(scope).Inc()
}

// RecordReactionToggle counts a reaction mutation by result.
func RecordReactionToggle(result string) {
	ReactionToggles.WithLabelValues(result).Inc()
}

// RecordUserCacheLookup counts a user cache hit or miss.
func RecordUserCacheLookup(hit bool) {
	if hit {
		UserCacheLookups.WithLabelValues("hit").Inc()
	} else {
		UserCacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordKakaoRequest records one Kakao API call.
func RecordKakaoRequest(operation, outcome string, duration time.Duration) {
	KakaoRequests.WithLabelValues(operation, outcome).Inc()
	KakaoRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
