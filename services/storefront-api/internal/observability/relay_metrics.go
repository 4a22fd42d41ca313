package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay metrics. Waiters is the live registration count; Delivered and
// Expired are lifetime totals. A growing Expired with flat Delivered means
// the gateway stopped calling back.
var (
	RelayWaiters = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shopfront",
		Name:      "relay_waiters",
		Help:      "Number of registered payment-event waiters",
	})

	RelayDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopfront",
		Name:      "relay_delivered_total",
		Help:      "Total payment events delivered to waiters",
	})

	RelayExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopfront",
		Name:      "relay_expired_total",
		Help:      "Total waiter registrations evicted by TTL",
	})

	PaymentEventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopfront",
		Name:      "payment_events_consumed_total",
		Help:      "Payment events consumed from Kafka by outcome",
	}, []string{"outcome"})
)
