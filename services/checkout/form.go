package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField         = errors.New("unknown field")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

type DetailsField string

const (
	FirstName DetailsField = "firstName"
	LastName  DetailsField = "lastName"
	Email     DetailsField = "email"
	Phone     DetailsField = "phone"
	Address   DetailsField = "address"
	City      DetailsField = "city"
	State     DetailsField = "state"
	ZipCode   DetailsField = "zipCode"
	Country   DetailsField = "country"
)

// DetailsFields lists the shipping fields in form order.
var DetailsFields = []DetailsField{FirstName, LastName, Email, Phone, Address, City, State, ZipCode, Country}

type ShippingDetails struct {
	FirstName string `form:"firstName" json:"firstName" validate:"required"`
	LastName  string `form:"lastName" json:"lastName" validate:"required"`
	Email     string `form:"email" json:"email" validate:"required,email_address"`
	Phone     string `form:"phone" json:"phone" validate:"required"`
	Address   string `form:"address" json:"address" validate:"required"`
	City      string `form:"city" json:"city" validate:"required"`
	State     string `form:"state" json:"state" validate:"required"`
	ZipCode   string `form:"zipCode" json:"zipCode" validate:"required"`
	Country   string `form:"country" json:"country" validate:"required"`
}

func (d *ShippingDetails) Set(field DetailsField, value string) error {
	switch field {
	case FirstName:
		d.FirstName = value
	case LastName:
		d.LastName = value
	case Email:
		d.Email = value
	case Phone:
		d.Phone = value
	case Address:
		d.Address = value
	case City:
		d.City = value
	case State:
		d.State = value
	case ZipCode:
		d.ZipCode = value
	case Country:
		d.Country = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (d ShippingDetails) Get(field DetailsField) string {
	switch field {
	case FirstName:
		return d.FirstName
	case LastName:
		return d.LastName
	case Email:
		return d.Email
	case Phone:
		return d.Phone
	case Address:
		return d.Address
	case City:
		return d.City
	case State:
		return d.State
	case ZipCode:
		return d.ZipCode
	case Country:
		return d.Country
	default:
		return ""
	}
}

type PaymentMethod string

const (
	CreditCard PaymentMethod = "credit-card"
	DebitCard  PaymentMethod = "debit-card"
	PayPal     PaymentMethod = "paypal"
)

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch PaymentMethod(value) {
	case CreditCard, DebitCard, PayPal:
		return PaymentMethod(value), nil
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnknownPaymentMethod, value)
	}
}

// IsCard tells whether card fields must be filled in.
func (m PaymentMethod) IsCard() bool {
	return strings.Contains(string(m), "card")
}

type PaymentField string

const (
	CardName    PaymentField = "cardName"
	CardNumber  PaymentField = "cardNumber"
	ExpiryMonth PaymentField = "expiryMonth"
	ExpiryYear  PaymentField = "expiryYear"
	CVV         PaymentField = "cvv"
)

var PaymentFields = []PaymentField{CardName, CardNumber, ExpiryMonth, ExpiryYear, CVV}

type PaymentDetails struct {
	Method PaymentMethod `form:"paymentMethod" json:"paymentMethod"`
	CardDetails
}

type CardDetails struct {
	CardName    string `form:"cardName" json:"cardName" validate:"required"`
	CardNumber  string `form:"cardNumber" json:"cardNumber" validate:"required,len=16,number"`
	ExpiryMonth string `form:"expiryMonth" json:"expiryMonth" validate:"required"`
	ExpiryYear  string `form:"expiryYear" json:"expiryYear" validate:"required"`
	CVV         string `form:"cvv" json:"cvv" validate:"required,len=3,number"`
}

func newPaymentDetails() PaymentDetails {
	return PaymentDetails{Method: CreditCard}
}

// Set stores a card field; numeric fields are reduced to their digits and truncated to their maximum length.
func (p *PaymentDetails) Set(field PaymentField, value string) error {
	switch field {
	case CardName:
		p.CardName = value
	case CardNumber:
		p.CardNumber = sanitizeDigits(value, 16)
	case ExpiryMonth:
		p.ExpiryMonth = sanitizeDigits(value, 2)
	case ExpiryYear:
		p.ExpiryYear = sanitizeDigits(value, 2)
	case CVV:
		p.CVV = sanitizeDigits(value, 3)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (p PaymentDetails) Get(field PaymentField) string {
	switch field {
	case CardName:
		return p.CardName
	case CardNumber:
		return p.CardNumber
	case ExpiryMonth:
		return p.ExpiryMonth
	case ExpiryYear:
		return p.ExpiryYear
	case CVV:
		return p.CVV
	default:
		return ""
	}
}

func sanitizeDigits(value string, max int) string {
	digits := strings.Builder{}
	for _, r := range value {
		if digits.Len() == max {
			break
		}
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// maskCardNumber keeps only the last four digits visible.
func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
