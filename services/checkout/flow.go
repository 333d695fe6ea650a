package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MarcGrol/printshop/lib/mytime"
)

type Step string

const (
	StepDetails      Step = "details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
	StepClosed       Step = "closed"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidationFailed  = errors.New("validation failed")
)

var formValidation = newFormValidator()

// Message is one of the events the flow reacts upon.
type Message interface {
	messageName() string
}

type DetailsFieldChanged struct {
	Field DetailsField
	Value string
}

type PaymentMethodChanged struct {
	Method PaymentMethod
}

type PaymentFieldChanged struct {
	Field PaymentField
	Value string
}

type DetailsSubmitted struct{}

type BackRequested struct{}

type PaymentSubmitted struct{}

type Cancelled struct{}

func (DetailsFieldChanged) messageName() string  { return "DetailsFieldChanged" }
func (PaymentMethodChanged) messageName() string { return "PaymentMethodChanged" }
func (PaymentFieldChanged) messageName() string  { return "PaymentFieldChanged" }
func (DetailsSubmitted) messageName() string     { return "DetailsSubmitted" }
func (BackRequested) messageName() string        { return "BackRequested" }
func (PaymentSubmitted) messageName() string     { return "PaymentSubmitted" }
func (Cancelled) messageName() string            { return "Cancelled" }

type Transition struct {
	From Step
	To   Step
}

func (t Transition) Changed() bool {
	return t.From != t.To
}

// Flow walks a shopper from shipping details via payment to confirmation.
// The confirmation closes itself after closeDelay, unless the flow is closed or re-opened before that.
type Flow struct {
	sync.Mutex
	sessionUID  string
	step        Step
	details     ShippingDetails
	payment     PaymentDetails
	errors      ValidationErrors
	generation  int
	cancelClose mytime.Cancel
	scheduler   mytime.Scheduler
	closeDelay  time.Duration
	onAutoClose func(sessionUID string)
}

func NewFlow(sessionUID string, scheduler mytime.Scheduler, closeDelay time.Duration, onAutoClose func(sessionUID string)) *Flow {
	return &Flow{
		sessionUID:  sessionUID,
		step:        StepClosed,
		payment:     newPaymentDetails(),
		scheduler:   scheduler,
		closeDelay:  closeDelay,
		onAutoClose: onAutoClose,
	}
}

// Open starts with empty forms. It reports whether a flow that was still in progress got replaced.
func (f *Flow) Open() bool {
	f.Lock()
	defer f.Unlock()

	replaced := f.step != StepClosed
	f.closeLocked()
	f.step = StepDetails

	return replaced
}

func (f *Flow) Dispatch(msg Message) (Transition, error) {
	f.Lock()
	defer f.Unlock()

	from := f.step
	err := f.reduce(msg)
	return Transition{From: from, To: f.step}, err
}

func (f *Flow) reduce(msg Message) error {
	switch m := msg.(type) {
	case DetailsFieldChanged:
		if f.step != StepDetails {
			return f.invalidTransition(msg)
		}
		return f.details.Set(m.Field, m.Value)

	case PaymentMethodChanged:
		if f.step != StepPayment {
			return f.invalidTransition(msg)
		}
		method, err := ParsePaymentMethod(string(m.Method))
		if err != nil {
			return err
		}
		f.payment.Method = method
		return nil

	case PaymentFieldChanged:
		if f.step != StepPayment {
			return f.invalidTransition(msg)
		}
		return f.payment.Set(m.Field, m.Value)

	case DetailsSubmitted:
		if f.step != StepDetails {
			return f.invalidTransition(msg)
		}
		f.errors = formValidation.ValidateDetails(f.details)
		if len(f.errors) > 0 {
			return fmt.Errorf("%w: %s", ErrValidationFailed, f.errors)
		}
		f.step = StepPayment
		return nil

	case BackRequested:
		if f.step != StepPayment {
			return f.invalidTransition(msg)
		}
		f.errors = nil
		f.step = StepDetails
		return nil

	case PaymentSubmitted:
		if f.step != StepPayment {
			return f.invalidTransition(msg)
		}
		f.errors = formValidation.ValidatePayment(f.payment)
		if len(f.errors) > 0 {
			return fmt.Errorf("%w: %s", ErrValidationFailed, f.errors)
		}
		f.step = StepConfirmation
		f.scheduleCloseLocked()
		return nil

	case Cancelled:
		if f.step == StepClosed {
			return f.invalidTransition(msg)
		}
		f.closeLocked()
		return nil

	default:
		return fmt.Errorf("%w: unsupported message %T", ErrInvalidTransition, msg)
	}
}

func (f *Flow) invalidTransition(msg Message) error {
	return fmt.Errorf("%w: %s not allowed in step %s", ErrInvalidTransition, msg.messageName(), f.step)
}

func (f *Flow) scheduleCloseLocked() {
	generation := f.generation
	f.cancelClose = f.scheduler.AfterFunc(f.closeDelay, func() {
		f.autoClose(generation)
	})
}

func (f *Flow) autoClose(generation int) {
	f.Lock()
	if f.generation != generation || f.step != StepConfirmation {
		// closed or re-opened in the meantime
		f.Unlock()
		return
	}
	f.closeLocked()
	f.Unlock()

	if f.onAutoClose != nil {
		f.onAutoClose(f.sessionUID)
	}
}

// closeLocked discards all form data and invalidates any pending close.
func (f *Flow) closeLocked() {
	if f.cancelClose != nil {
		f.cancelClose()
		f.cancelClose = nil
	}
	f.generation++
	f.step = StepClosed
	f.details = ShippingDetails{}
	f.payment = newPaymentDetails()
	f.errors = nil
}

func (f *Flow) Step() Step {
	f.Lock()
	defer f.Unlock()

	return f.step
}

func (f *Flow) Details() ShippingDetails {
	f.Lock()
	defer f.Unlock()

	return f.details
}

func (f *Flow) Payment() PaymentDetails {
	f.Lock()
	defer f.Unlock()

	return f.payment
}

func (f *Flow) Errors() ValidationErrors {
	f.Lock()
	defer f.Unlock()

	return append(ValidationErrors{}, f.errors...)
}
