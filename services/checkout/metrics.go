package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printshop_checkouts_started_total",
		Help: "The total number of checkout flows opened",
	})
	checkoutTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printshop_checkout_transitions_total",
		Help: "The total number of checkout step changes",
	}, []string{"from", "to"})
	checkoutValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printshop_checkout_validation_failures_total",
		Help: "The total number of rejected form submissions by step",
	}, []string{"step"})
)
