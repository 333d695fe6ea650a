package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MarcGrol/printshop/lib/myvalidate"
)

type ErrorKind string

const (
	MissingField  ErrorKind = "MissingField"
	InvalidFormat ErrorKind = "InvalidFormat"
	InvalidLength ErrorKind = "InvalidLength"
)

type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationErrors holds every violation of a form, in form field order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := []string{}
	for _, fe := range v {
		messages = append(messages, fe.Field+": "+fe.Message)
	}
	return strings.Join(messages, ", ")
}

func (v ValidationErrors) For(field string) (FieldError, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// The validator's own email check accepts addresses without a dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var messages = map[string]map[ErrorKind]string{
	"firstName":   {MissingField: "First name is required"},
	"lastName":    {MissingField: "Last name is required"},
	"email":       {MissingField: "Email is required", InvalidFormat: "Please enter a valid email"},
	"phone":       {MissingField: "Phone number is required"},
	"address":     {MissingField: "Address is required"},
	"city":        {MissingField: "City is required"},
	"state":       {MissingField: "State is required"},
	"zipCode":     {MissingField: "ZIP code is required"},
	"country":     {MissingField: "Country is required"},
	"cardName":    {MissingField: "Cardholder name is required"},
	"cardNumber":  {MissingField: "Card number is required", InvalidLength: "Card number must be 16 digits", InvalidFormat: "Card number must contain digits only"},
	"expiryMonth": {MissingField: "Month is required"},
	"expiryYear":  {MissingField: "Year is required"},
	"cvv":         {MissingField: "CVV is required", InvalidLength: "CVV must be 3 digits", InvalidFormat: "CVV must contain digits only"},
}

type formValidator struct {
	validate *validator.Validate
}

func newFormValidator() *formValidator {
	v := myvalidate.New()
	err := v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}

	return &formValidator{
		validate: v,
	}
}

// ValidateDetails reports all violations of the shipping form at once.
func (fv *formValidator) ValidateDetails(details ShippingDetails) ValidationErrors {
	return fv.validateStruct(details)
}

// ValidatePayment only checks card fields when a card is used; month and year are checked for presence only.
func (fv *formValidator) ValidatePayment(payment PaymentDetails) ValidationErrors {
	if !payment.Method.IsCard() {
		return nil
	}
	return fv.validateStruct(payment.CardDetails)
}

func (fv *formValidator) validateStruct(s interface{}) ValidationErrors {
	err := fv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ValidationErrors{{Field: "", Kind: InvalidFormat, Message: err.Error()}}
	}

	result := ValidationErrors{}
	for _, fe := range validationErrors {
		kind := kindOf(fe.Tag())
		result = append(result, FieldError{
			Field:   fe.Field(),
			Kind:    kind,
			Message: messageFor(fe.Field(), kind),
		})
	}
	return result
}

func kindOf(tag string) ErrorKind {
	switch tag {
	case "required":
		return MissingField
	case "len":
		return InvalidLength
	default:
		return InvalidFormat
	}
}

func messageFor(field string, kind ErrorKind) string {
	msg, found := messages[field][kind]
	if !found {
		return field + " is invalid"
	}
	return msg
}
