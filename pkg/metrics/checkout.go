package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the cart and checkout flows.
type CheckoutMetrics struct {
	sessionsCreated   prometheus.Counter
	paymentErrors     *prometheus.CounterVec
	cartOperations    *prometheus.CounterVec
	processorDuration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessionsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Hosted checkout sessions successfully created.",
	})
	paymentErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_errors_total",
		Help: "Classified payment processor failures.",
	}, []string{"reason"})
	cartOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart state transitions by operation and outcome.",
	}, []string{"op", "outcome"})
	processorDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "processor_request_duration_seconds",
		Help:    "Duration of payment processor calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(sessionsCreated, paymentErrors, cartOperations, processorDuration)
	return &CheckoutMetrics{
		sessionsCreated:   sessionsCreated,
		paymentErrors:     paymentErrors,
		cartOperations:    cartOperations,
		processorDuration: processorDuration,
	}
}

// IncSessionCreated increments the created-session counter.
func (m *CheckoutMetrics) IncSessionCreated() {
	if m == nil || m.sessionsCreated == nil {
		return
	}
	m.sessionsCreated.Inc()
}

// IncPaymentError increments the failure counter for the classified reason.
func (m *CheckoutMetrics) IncPaymentError(reason string) {
	if m == nil || m.paymentErrors == nil {
		return
	}
	m.paymentErrors.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCartOperation increments the cart transition counter.
func (m *CheckoutMetrics) IncCartOperation(op, outcome string) {
	if m == nil || m.cartOperations == nil {
		return
	}
	m.cartOperations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// ObserveProcessorDuration records the latency of a processor call.
func (m *CheckoutMetrics) ObserveProcessorDuration(op string, duration time.Duration) {
	if m == nil || m.processorDuration == nil {
		return
	}
	m.processorDuration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
