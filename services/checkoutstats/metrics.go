package checkoutstats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printshop_orders_confirmed_total",
		Help: "The total number of confirmed orders by payment method",
	}, []string{"payment_method"})
	orderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printshop_order_revenue_total",
		Help: "The summed totals of confirmed orders",
	})
	checkoutsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printshop_checkouts_closed_total",
		Help: "The total number of closed checkouts by reason",
	}, []string{"reason"})
)
