package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dentista",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dentista",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dentista",
			Name:      "bookings_created_total",
			Help:      "Appointments successfully created.",
		},
	)

	slotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dentista",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the slot was already taken.",
		},
	)

	transitionsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dentista",
			Name:      "status_transitions_rejected_total",
			Help:      "Status updates rejected by the workflow table.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingsCreated,
			slotConflicts,
			transitionsRejected,
		)
	})
}

func ObserveHTTP(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

func IncBookingCreated() { bookingsCreated.Inc() }

func IncSlotConflict() { slotConflicts.Inc() }

func IncTransitionRejected() { transitionsRejected.Inc() }
