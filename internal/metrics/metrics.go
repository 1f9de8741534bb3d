// Package metrics exposes Prometheus counters for the reservation
// admission flow.  The vectors are registered via promauto at init
// time and served on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationsCreated counts successful admissions.
	ReservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total reservations admitted successfully",
		},
	)

	// ReservationsRejected counts rejected admissions by reason
	// (not_found, validation, overlap).
	ReservationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total reservation admissions rejected, by reason",
		},
		[]string{"reason"},
	)

	// PaymentTransitions counts payment status changes by target
	// status and outcome.
	PaymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_status_transitions_total",
			Help: "Total payment status transitions, by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	// ReservationDurationHours observes the billed hours of admitted
	// reservations.
	ReservationDurationHours = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reservation_duration_hours",
			Help:    "Billed duration of admitted reservations in whole hours",
			Buckets: prometheus.LinearBuckets(1, 2, 12),
		},
	)
)
