package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sharik",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sharik",
			Name:      "bookings_created_total",
			Help:      "Bookings successfully created.",
		},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sharik",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by event.",
		},
		[]string{"event"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sharik",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected due to slot conflicts.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingTransitions, bookingConflicts)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// IncBookingCreated counts a successful booking creation.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncTransition counts a status transition by event name.
func IncTransition(event string) {
	bookingTransitions.WithLabelValues(event).Inc()
}

// IncConflict counts a creation rejected by the conflict checker.
func IncConflict() {
	bookingConflicts.Inc()
}
