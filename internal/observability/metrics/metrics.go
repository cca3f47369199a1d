package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the checkout pipeline counters.
type Metrics struct {
	CheckoutSessionsCreated prometheus.Counter
	WebhookEvents           *prometheus.CounterVec
	BookingsMaterialized    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CheckoutSessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventlane_checkout_sessions_created_total",
			Help: "Checkout sessions successfully created against the payment processor.",
		}),
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventlane_payment_webhook_events_total",
			Help: "Payment webhook deliveries by outcome.",
		}, []string{"outcome"}),
		BookingsMaterialized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventlane_bookings_materialized_total",
			Help: "Bookings materialized from completed checkout sessions.",
		}),
	}
}

func (m *Metrics) RecordWebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSessionCreated() {
	if m == nil {
		return
	}
	m.CheckoutSessionsCreated.Inc()
}

func (m *Metrics) RecordBookingsMaterialized(n int) {
	if m == nil {
		return
	}
	m.BookingsMaterialized.Add(float64(n))
}

// HTTPMetrics instruments request durations.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventlane_http_request_duration_seconds",
			Help:    "HTTP request durations by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
