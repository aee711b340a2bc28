package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 客户端请求指标
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yushan_client_requests_total",
			Help: "Total number of outbound API calls by client and outcome",
		},
		[]string{"client", "outcome"},
	)

	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yushan_client_request_duration_seconds",
			Help:    "Outbound API call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"client"},
	)

	// 限流指标；source=client 表示本地预算耗尽，source=server 表示收到 429
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yushan_client_rate_limited_total",
			Help: "Calls rejected for rate limiting",
		},
		[]string{"client", "source"},
	)

	ClientBudget = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "yushan_client_budget_requests_per_second",
			Help: "Configured request budget per client",
		},
		[]string{"client"},
	)

	// 令牌刷新指标
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yushan_auth_refresh_total",
			Help: "Token refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yushan_auth_refresh_duration_seconds",
			Help:    "Token refresh latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
	)

	RefreshWaiters = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yushan_auth_refresh_waiters",
			Help:    "Requests resolved by a single refresh",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	ReplayTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yushan_auth_replay_total",
			Help: "Requests replayed after a refresh",
		},
		[]string{"outcome"},
	)

	SessionExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yushan_session_expired_total",
			Help: "Times the session ended because a refresh failed",
		},
	)

	// mock 后端指标
	MockHTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yushan_mockapi_requests_total",
			Help: "Requests served by the mock backend",
		},
		[]string{"method", "path", "status_class"},
	)

	MockRateLimitKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yushan_mockapi_ratelimit_keys",
			Help: "Per-caller limiters held by the mock backend",
		},
	)

	MockRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yushan_mockapi_rate_limited_total",
			Help: "Requests the mock backend answered with 429",
		},
	)
)

// RecordClientRequest records one outbound call.
func RecordClientRequest(client, outcome string, d time.Duration) {
	ClientRequestsTotal.WithLabelValues(client, outcome).Inc()
	ClientRequestDuration.WithLabelValues(client).Observe(d.Seconds())
}

// RecordRateLimited records a client-side or server-side rejection.
func RecordRateLimited(client, source string) {
	RateLimitedTotal.WithLabelValues(client, source).Inc()
}

// SetClientBudget exports the configured budget.
func SetClientBudget(client string, maxRequests int, window time.Duration) {
	if window <= 0 {
		return
	}
	ClientBudget.WithLabelValues(client).Set(float64(maxRequests) / window.Seconds())
}

// RecordRefresh records one refresh flight and the number of requests it resolved.
func RecordRefresh(outcome string, waiters int, d time.Duration) {
	RefreshTotal.WithLabelValues(outcome).Inc()
	RefreshDuration.Observe(d.Seconds())
	RefreshWaiters.Observe(float64(waiters))
}

// RecordReplay records the result of a replayed request.
func RecordReplay(outcome string) {
	ReplayTotal.WithLabelValues(outcome).Inc()
}

// RecordSessionExpired counts a forced logout.
func RecordSessionExpired() {
	SessionExpiredTotal.Inc()
}

// StatusClass returns "2xx" style labels.
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "other"
}
