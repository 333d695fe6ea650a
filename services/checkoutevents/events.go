package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/myevents"
)

const (
	TopicName             = "checkout"
	checkoutStartedName   = TopicName + ".started"
	checkoutConfirmedName = TopicName + ".confirmed"
	checkoutClosedName    = TopicName + ".closed"
)

type CheckoutEventHandler interface {
	OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error
	OnCheckoutConfirmed(c context.Context, topic string, event CheckoutConfirmed) error
	OnCheckoutClosed(c context.Context, topic string, event CheckoutClosed) error
}

// DispatchEvent decodes a push request as received from pubsub and hands its payload to the matching handler.
func DispatchEvent(c context.Context, reader io.Reader, handler CheckoutEventHandler) error {
	envelope, err := myevents.ParsePushRequest(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutStartedName:
		{
			event := CheckoutStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutStarted(c, envelope.Topic, event)
		}
	case checkoutConfirmedName:
		{
			event := CheckoutConfirmed{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutConfirmed(c, envelope.Topic, event)
		}
	case checkoutClosedName:
		{
			event := CheckoutClosed{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return handler.OnCheckoutClosed(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

type CheckoutStarted struct {
	SessionUID string
	Total      string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.SessionUID
}

type CheckoutConfirmed struct {
	SessionUID    string
	Total         string
	PaymentMethod string
}

func (e CheckoutConfirmed) GetEventTypeName() string {
	return checkoutConfirmedName
}

func (e CheckoutConfirmed) GetAggregateName() string {
	return e.SessionUID
}

type CloseReason string

const (
	CloseReasonCompleted CloseReason = "completed"
	CloseReasonCancelled CloseReason = "cancelled"
	CloseReasonReplaced  CloseReason = "replaced"
)

type CheckoutClosed struct {
	SessionUID string
	Reason     CloseReason
}

func (e CheckoutClosed) GetEventTypeName() string {
	return checkoutClosedName
}

func (e CheckoutClosed) GetAggregateName() string {
	return e.SessionUID
}
