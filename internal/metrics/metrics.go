package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "braidzworld",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "braidzworld",
			Name:      "booking_status_changes_total",
			Help:      "Booking status transitions by target status.",
		},
		[]string{"status"},
	)

	blockedTimes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "braidzworld",
			Name:      "blocked_times",
			Help:      "Current number of blocked-time entries.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, statusChanges, blockedTimes)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncStatusChange increments the transition counter for a target status.
func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

// SetBlockedTimes records the size of the blocked-time collection.
func SetBlockedTimes(n int) {
	blockedTimes.Set(float64(n))
}
