package checkoutstats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

const statsUID = "checkout"

type Subscriber interface {
	Subscribe(c context.Context, topic string, urlToPostTo string) error
}

type service struct {
	statsStore mystore.Store[Stats]
	subscriber Subscriber
	pushURL    string
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Stats], subscriber Subscriber, pushURL string, logger mylog.Logger) *service {
	return &service{
		statsStore: store,
		subscriber: subscriber,
		pushURL:    pushURL,
		logger:     logger,
	}
}

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, checkoutevents.TopicName, s.pushURL)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}
	return nil
}

func (s *service) getStats(c context.Context) (Stats, error) {
	stats, found, err := s.statsStore.Get(c, statsUID)
	if err != nil {
		return Stats{}, myerrors.NewInternalError(err)
	}
	if !found {
		return newStats(), nil
	}
	return stats.clone(), nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Event: checkout of session %s started (total %s)", event.SessionUID, event.Total)

	return s.modifyStats(c, func(stats *Stats) error {
		stats.Started++
		return nil
	})
}

func (s *service) OnCheckoutConfirmed(c context.Context, topic string, event checkoutevents.CheckoutConfirmed) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Event: checkout of session %s confirmed (%s, total %s)", event.SessionUID, event.PaymentMethod, event.Total)

	total, err := decimal.NewFromString(event.Total)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("invalid total '%s' for session %s: %s", event.Total, event.SessionUID, err))
	}

	err = s.modifyStats(c, func(stats *Stats) error {
		stats.Confirmed++
		stats.ByPaymentMethod[event.PaymentMethod]++
		stats.Revenue = stats.Revenue.Add(total)
		return nil
	})
	if err != nil {
		return err
	}

	ordersConfirmed.WithLabelValues(event.PaymentMethod).Inc()
	orderRevenue.Add(total.InexactFloat64())

	return nil
}

func (s *service) OnCheckoutClosed(c context.Context, topic string, event checkoutevents.CheckoutClosed) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Event: checkout of session %s closed (%s)", event.SessionUID, event.Reason)

	err := s.modifyStats(c, func(stats *Stats) error {
		stats.Closed[event.Reason]++
		return nil
	})
	if err != nil {
		return err
	}

	checkoutsClosed.WithLabelValues(string(event.Reason)).Inc()

	return nil
}

func (s *service) modifyStats(c context.Context, modify func(stats *Stats) error) error {
	return s.statsStore.RunInTransaction(c, func(c context.Context) error {
		stats, err := s.getStats(c)
		if err != nil {
			return err
		}

		err = modify(&stats)
		if err != nil {
			return err
		}

		err = s.statsStore.Put(c, statsUID, stats)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
}
