package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ignite_call",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	schedulingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "schedulings_created_total",
			Help:      "Count of schedulings confirmed by visitors.",
		},
	)

	schedulingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "schedulings_rejected_total",
			Help:      "Count of scheduling attempts refused, by reason.",
		},
		[]string{"reason"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "blocked_dates_cache_total",
			Help:      "Blocked dates cache lookups by result.",
		},
		[]string{"result"},
	)

	remindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "reminders_total",
			Help:      "Reminder emails by outcome.",
		},
		[]string{"outcome"},
	)

	calendarEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ignite_call",
			Name:      "calendar_events_total",
			Help:      "Google Calendar event creation by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			schedulingsCreated,
			schedulingsRejected,
			cacheLookups,
			remindersSent,
			calendarEvents,
		)
	})
}

// Middleware records request count and latency keyed by the matched route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func IncSchedulingCreated() {
	schedulingsCreated.Inc()
}

func IncSchedulingRejected(reason string) {
	schedulingsRejected.WithLabelValues(reason).Inc()
}

func IncCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func IncReminder(outcome string) {
	remindersSent.WithLabelValues(outcome).Inc()
}

func IncCalendarEvent(outcome string) {
	calendarEvents.WithLabelValues(outcome).Inc()
}
