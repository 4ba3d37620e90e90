package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AvailabilityChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "peerrent_availability_checks_total",
		Help: "Total number of availability checks, by outcome.",
	},
		[]string{"outcome"},
	)

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "peerrent_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "peerrent_orders_cancelled_total",
		Help: "Total number of orders cancelled.",
	})

	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "peerrent_booking_conflicts_total",
		Help: "Total number of order creations rejected for insufficient availability.",
	})

	CommitRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "peerrent_commit_retries_total",
		Help: "Total number of transactional commit retries due to concurrency conflicts.",
	})
)
