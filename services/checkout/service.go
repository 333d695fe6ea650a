package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

//go:generate mockgen -source=service.go -package checkout -destination cart_totaler_mock.go CartTotaler
type CartTotaler interface {
	GetTotal(c context.Context, sessionUID string) (decimal.Decimal, error)
}

type service struct {
	flowStore  mystore.Store[*Flow]
	totaler    CartTotaler
	scheduler  mytime.Scheduler
	closeDelay time.Duration
	publisher  mypublisher.Publisher
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[*Flow], totaler CartTotaler, scheduler mytime.Scheduler, closeDelay time.Duration, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		flowStore:  store,
		totaler:    totaler,
		scheduler:  scheduler,
		closeDelay: closeDelay,
		publisher:  pub,
		logger:     logger,
	}
}

func (s *service) openCheckout(c context.Context, sessionUID string) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Open checkout for session %s", sessionUID)

	total, err := s.totaler.GetTotal(c, sessionUID)
	if err != nil {
		return View{}, err
	}

	var flow *Flow
	err = s.flowStore.RunInTransaction(c, func(c context.Context) error {
		existing, found, err := s.flowStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		flow = existing
		if !found {
			flow = NewFlow(sessionUID, s.scheduler, s.closeDelay, s.autoClosed)
			err = s.flowStore.Put(c, sessionUID, flow)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		replaced := flow.Open()
		if replaced {
			s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Replaced checkout in progress for session %s", sessionUID)
			err = s.publishClosed(c, sessionUID, checkoutevents.CloseReasonReplaced)
			if err != nil {
				return err
			}
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			SessionUID: sessionUID,
			Total:      total.StringFixed(2),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return View{}, err
	}

	checkoutsStarted.Inc()

	return s.view(c, flow), nil
}

func (s *service) getCheckout(c context.Context, sessionUID string) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityDebug, "Fetch checkout of session %s", sessionUID)

	flow, found, err := s.flowStore.Get(c, sessionUID)
	if err != nil {
		return View{}, myerrors.NewInternalError(err)
	}
	if !found {
		return View{}, checkoutNotFound(sessionUID)
	}

	return s.view(c, flow), nil
}

func (s *service) submitDetails(c context.Context, sessionUID string, details ShippingDetails) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Submit shipping details for session %s", sessionUID)

	msgs := []Message{}
	for _, field := range DetailsFields {
		msgs = append(msgs, DetailsFieldChanged{Field: field, Value: details.Get(field)})
	}
	msgs = append(msgs, DetailsSubmitted{})

	return s.dispatch(c, sessionUID, msgs...)
}

func (s *service) submitPayment(c context.Context, sessionUID string, method string, card CardDetails) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Submit payment (%s) for session %s", method, sessionUID)

	msgs := []Message{}
	if method != "" {
		msgs = append(msgs, PaymentMethodChanged{Method: PaymentMethod(method)})
	}
	for _, field := range PaymentFields {
		value := PaymentDetails{CardDetails: card}.Get(field)
		msgs = append(msgs, PaymentFieldChanged{Field: field, Value: value})
	}
	msgs = append(msgs, PaymentSubmitted{})

	return s.dispatch(c, sessionUID, msgs...)
}

func (s *service) goBack(c context.Context, sessionUID string) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Back to shipping details for session %s", sessionUID)

	return s.dispatch(c, sessionUID, BackRequested{})
}

func (s *service) cancelCheckout(c context.Context, sessionUID string) (View, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Cancel checkout for session %s", sessionUID)

	return s.dispatch(c, sessionUID, Cancelled{})
}

// dispatch feeds messages to the flow until one fails. The view is returned also when a message failed.
func (s *service) dispatch(c context.Context, sessionUID string, msgs ...Message) (View, error) {
	var flow *Flow
	err := s.flowStore.RunInTransaction(c, func(c context.Context) error {
		found := false
		var err error
		flow, found, err = s.flowStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return checkoutNotFound(sessionUID)
		}

		for _, msg := range msgs {
			transition, err := flow.Dispatch(msg)
			if transition.Changed() {
				pubErr := s.onTransition(c, sessionUID, flow, transition)
				if pubErr != nil {
					return pubErr
				}
			}
			if err != nil {
				if errors.Is(err, ErrValidationFailed) {
					checkoutValidationFailures.WithLabelValues(string(transition.From)).Inc()
				}
				return asHTTPError(err)
			}
		}
		return nil
	})
	if flow == nil {
		return View{}, err
	}

	return s.view(c, flow), err
}

func (s *service) onTransition(c context.Context, sessionUID string, flow *Flow, transition Transition) error {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Checkout of session %s moved from %s to %s", sessionUID, transition.From, transition.To)
	checkoutTransitions.WithLabelValues(string(transition.From), string(transition.To)).Inc()

	switch transition.To {
	case StepConfirmation:
		err := s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutConfirmed{
			SessionUID:    sessionUID,
			Total:         s.total(c, sessionUID),
			PaymentMethod: string(flow.Payment().Method),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}
	case StepClosed:
		return s.publishClosed(c, sessionUID, checkoutevents.CloseReasonCancelled)
	}
	return nil
}

// autoClosed runs on the scheduler, outside of any request.
func (s *service) autoClosed(sessionUID string) {
	c := context.Background()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Checkout of session %s closed after confirmation", sessionUID)
	checkoutTransitions.WithLabelValues(string(StepConfirmation), string(StepClosed)).Inc()

	err := s.publishClosed(c, sessionUID, checkoutevents.CloseReasonCompleted)
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error publishing close of checkout %s: %s", sessionUID, err)
	}
}

func (s *service) publishClosed(c context.Context, sessionUID string, reason checkoutevents.CloseReason) error {
	err := s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutClosed{
		SessionUID: sessionUID,
		Reason:     reason,
	})
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	return nil
}

func (s *service) view(c context.Context, flow *Flow) View {
	view := flow.View()
	view.Total = s.total(c, view.SessionUID)
	return view
}

func (s *service) total(c context.Context, sessionUID string) string {
	total, err := s.totaler.GetTotal(c, sessionUID)
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Error fetching cart total of session %s: %s", sessionUID, err)
		return ""
	}
	return total.StringFixed(2)
}

var flowErrorStatus = []myerrors.Mapping{
	{Target: ErrInvalidTransition, Status: http.StatusConflict},
	{Target: ErrValidationFailed, Status: http.StatusUnprocessableEntity},
	{Target: ErrUnknownPaymentMethod, Status: http.StatusBadRequest},
	{Target: ErrUnknownField, Status: http.StatusBadRequest},
}

func asHTTPError(err error) error {
	return myerrors.Classify(err, flowErrorStatus...)
}

func checkoutNotFound(sessionUID string) error {
	return myerrors.NewNotFoundError(fmt.Errorf("no checkout for session %s", sessionUID))
}
