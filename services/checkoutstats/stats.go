package checkoutstats

import (
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/services/checkoutevents"
)

// Stats summarises how checkouts ended up, as learned from the checkout topic.
type Stats struct {
	Started         int                                `json:"started"`
	Confirmed       int                                `json:"confirmed"`
	Closed          map[checkoutevents.CloseReason]int `json:"closed"`
	ByPaymentMethod map[string]int                     `json:"byPaymentMethod"`
	Revenue         decimal.Decimal                    `json:"revenue"`
}

func newStats() Stats {
	return Stats{
		Closed:          map[checkoutevents.CloseReason]int{},
		ByPaymentMethod: map[string]int{},
		Revenue:         decimal.Zero,
	}
}

func (s Stats) clone() Stats {
	cloned := newStats()
	cloned.Started = s.Started
	cloned.Confirmed = s.Confirmed
	cloned.Revenue = s.Revenue
	for reason, count := range s.Closed {
		cloned.Closed[reason] = count
	}
	for method, count := range s.ByPaymentMethod {
		cloned.ByPaymentMethod[method] = count
	}
	return cloned
}
