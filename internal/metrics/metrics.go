package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ignitecall_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ignitecall_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ignitecall_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	SlotConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ignitecall_slot_conflicts_total",
			Help: "Total number of bookings rejected because the slot was taken",
		},
	)

	AvailabilityResolutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ignitecall_availability_resolutions_total",
			Help: "Total number of availability resolutions served",
		},
	)

	IntervalReplacementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ignitecall_interval_replacements_total",
			Help: "Total number of weekly interval replacements",
		},
		[]string{"status"},
	)

	CalendarSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ignitecall_calendar_sync_total",
			Help: "Total number of calendar sync deliveries",
		},
		[]string{"status"},
	)

	CalendarQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ignitecall_calendar_queue_length",
			Help: "Current length of the calendar sync queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordSlotConflict() {
	SlotConflictsTotal.Inc()
}

func RecordAvailabilityResolution() {
	AvailabilityResolutionsTotal.Inc()
}

func RecordIntervalReplacement(status string) {
	IntervalReplacementsTotal.WithLabelValues(status).Inc()
}

func RecordCalendarSync(status string) {
	CalendarSyncTotal.WithLabelValues(status).Inc()
}
