package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings persisted as PENDING with a gateway order",
		},
	)

	paymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway callbacks applied, by outcome",
		},
		[]string{"outcome"},
	)

	bookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Cancellations, by refund decision",
		},
		[]string{"refund_status"},
	)

	refundDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refund_decisions_total",
			Help: "Provider refund decisions",
		},
		[]string{"decision"},
	)

	couponsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coupons_consumed_total",
			Help: "Coupons marked used after a captured payment",
		},
	)

	staleBookingsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stale_bookings_swept_total",
			Help: "PENDING bookings reconciled to FAILED by the sweeper",
		},
	)

	gatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Latency of payment-gateway calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"call", "status"},
	)
)

func RecordBookingCreated() {
	bookingsCreated.Inc()
}

func RecordPaymentCallback(outcome string) {
	paymentCallbacks.WithLabelValues(outcome).Inc()
}

func RecordCancellation(refundStatus string) {
	bookingsCancelled.WithLabelValues(refundStatus).Inc()
}

func RecordRefundDecision(decision string) {
	refundDecisions.WithLabelValues(decision).Inc()
}

func RecordCouponConsumed() {
	couponsConsumed.Inc()
}

func RecordSweptBookings(n int64) {
	staleBookingsSwept.Add(float64(n))
}

func ObserveGatewayCall(call string, d time.Duration, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	gatewayCallDuration.WithLabelValues(call, status).Observe(d.Seconds())
}
