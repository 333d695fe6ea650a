package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printshop_sessions_created_total",
		Help: "The total number of shopping sessions started",
	})
	sessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printshop_sessions_closed_total",
		Help: "The total number of shopping sessions closed",
	})
	cartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printshop_cart_operations_total",
		Help: "The total number of cart mutations by operation",
	}, []string{"operation"})
)
