package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDetails() ShippingDetails {
	return ShippingDetails{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Phone:     "+31612345678",
		Address:   "Heemdstrakwartier 79",
		City:      "De Bilt",
		State:     "Utrecht",
		ZipCode:   "3731TB",
		Country:   "NL",
	}
}

func validCard() PaymentDetails {
	return PaymentDetails{
		Method: CreditCard,
		CardDetails: CardDetails{
			CardName:    "Jane Doe",
			CardNumber:  "4111111111111111",
			ExpiryMonth: "12",
			ExpiryYear:  "29",
			CVV:         "123",
		},
	}
}

func TestDetailsValidation(t *testing.T) {

	t.Run("Empty form reports every field", func(t *testing.T) {
		errs := formValidation.ValidateDetails(ShippingDetails{})

		assert.Len(t, errs, 9)
		for idx, field := range DetailsFields {
			assert.Equal(t, string(field), errs[idx].Field)
			assert.Equal(t, MissingField, errs[idx].Kind)
		}
		assert.Equal(t, "First name is required", errs[0].Message)
		assert.Equal(t, "ZIP code is required", errs[7].Message)
	})

	t.Run("Valid form", func(t *testing.T) {
		assert.Empty(t, formValidation.ValidateDetails(validDetails()))
	})

	for _, email := range []string{"john@doe", "johndoe.com", "john doe@example.com", "@doe.com"} {
		t.Run("Malformed email "+email, func(t *testing.T) {
			details := validDetails()
			details.Email = email

			errs := formValidation.ValidateDetails(details)

			assert.Equal(t, ValidationErrors{
				{Field: "email", Kind: InvalidFormat, Message: "Please enter a valid email"},
			}, errs)
		})
	}

	t.Run("Missing email is not reported as malformed", func(t *testing.T) {
		details := validDetails()
		details.Email = ""

		errs := formValidation.ValidateDetails(details)

		assert.Equal(t, ValidationErrors{
			{Field: "email", Kind: MissingField, Message: "Email is required"},
		}, errs)
	})

	t.Run("All violations are reported together", func(t *testing.T) {
		details := validDetails()
		details.LastName = ""
		details.Email = "johndoe.com"
		details.Country = ""

		errs := formValidation.ValidateDetails(details)

		assert.Len(t, errs, 3)
		assert.Equal(t, "lastName", errs[0].Field)
		assert.Equal(t, "email", errs[1].Field)
		assert.Equal(t, "country", errs[2].Field)
	})
}

func TestPaymentValidation(t *testing.T) {

	t.Run("Paypal is always valid", func(t *testing.T) {
		assert.Empty(t, formValidation.ValidatePayment(PaymentDetails{Method: PayPal}))
		assert.Empty(t, formValidation.ValidatePayment(PaymentDetails{
			Method:      PayPal,
			CardDetails: CardDetails{CardNumber: "12", CVV: "x"},
		}))
	})

	t.Run("Valid credit card", func(t *testing.T) {
		assert.Empty(t, formValidation.ValidatePayment(validCard()))
	})

	t.Run("Debit card is checked like a credit card", func(t *testing.T) {
		payment := validCard()
		payment.Method = DebitCard
		payment.CardName = ""

		errs := formValidation.ValidatePayment(payment)

		assert.Equal(t, ValidationErrors{
			{Field: "cardName", Kind: MissingField, Message: "Cardholder name is required"},
		}, errs)
	})

	t.Run("Short card number", func(t *testing.T) {
		payment := validCard()
		payment.CardNumber = "411111"

		errs := formValidation.ValidatePayment(payment)

		assert.Equal(t, ValidationErrors{
			{Field: "cardNumber", Kind: InvalidLength, Message: "Card number must be 16 digits"},
		}, errs)
	})

	t.Run("Short cvv", func(t *testing.T) {
		payment := validCard()
		payment.CVV = "12"

		errs := formValidation.ValidatePayment(payment)

		assert.Equal(t, ValidationErrors{
			{Field: "cvv", Kind: InvalidLength, Message: "CVV must be 3 digits"},
		}, errs)
	})

	t.Run("Non digits that bypassed sanitizing", func(t *testing.T) {
		payment := validCard()
		payment.CardNumber = "4111-1111-111111"
		payment.CVV = "1a3"

		errs := formValidation.ValidatePayment(payment)

		assert.Equal(t, ValidationErrors{
			{Field: "cardNumber", Kind: InvalidFormat, Message: "Card number must contain digits only"},
			{Field: "cvv", Kind: InvalidFormat, Message: "CVV must contain digits only"},
		}, errs)
	})

	t.Run("Empty card form", func(t *testing.T) {
		errs := formValidation.ValidatePayment(PaymentDetails{Method: CreditCard})

		assert.Equal(t, ValidationErrors{
			{Field: "cardName", Kind: MissingField, Message: "Cardholder name is required"},
			{Field: "cardNumber", Kind: MissingField, Message: "Card number is required"},
			{Field: "expiryMonth", Kind: MissingField, Message: "Month is required"},
			{Field: "expiryYear", Kind: MissingField, Message: "Year is required"},
			{Field: "cvv", Kind: MissingField, Message: "CVV is required"},
		}, errs)
	})

	// Expiry month and year are only checked for presence: a month of 13 or a year in the past passes.
	t.Run("Expiry is not range checked", func(t *testing.T) {
		payment := validCard()
		payment.ExpiryMonth = "13"
		payment.ExpiryYear = "01"

		assert.Empty(t, formValidation.ValidatePayment(payment))

		payment.ExpiryMonth = "00"
		assert.Empty(t, formValidation.ValidatePayment(payment))
	})
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Kind: InvalidFormat, Message: "Please enter a valid email"},
		{Field: "city", Kind: MissingField, Message: "City is required"},
	}

	assert.Equal(t, "email: Please enter a valid email, city: City is required", errs.Error())

	fe, found := errs.For("city")
	assert.True(t, found)
	assert.Equal(t, MissingField, fe.Kind)

	_, found = errs.For("phone")
	assert.False(t, found)
}
