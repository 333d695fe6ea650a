package checkout

type PaymentView struct {
	Method      PaymentMethod `json:"paymentMethod"`
	CardName    string        `json:"cardName"`
	CardNumber  string        `json:"cardNumber"`
	ExpiryMonth string        `json:"expiryMonth"`
	ExpiryYear  string        `json:"expiryYear"`
	CVVEntered  bool          `json:"cvvEntered"`
}

type View struct {
	SessionUID string           `json:"sessionUID"`
	Step       Step             `json:"step"`
	Details    ShippingDetails  `json:"details"`
	Payment    PaymentView      `json:"payment"`
	Errors     ValidationErrors `json:"errors"`
	Total      string           `json:"total"`
}

// View is a snapshot of the flow; the card number is masked and the cvv never leaves the flow.
func (f *Flow) View() View {
	f.Lock()
	defer f.Unlock()

	return View{
		SessionUID: f.sessionUID,
		Step:       f.step,
		Details:    f.details,
		Payment: PaymentView{
			Method:      f.payment.Method,
			CardName:    f.payment.CardName,
			CardNumber:  maskCardNumber(f.payment.CardNumber),
			ExpiryMonth: f.payment.ExpiryMonth,
			ExpiryYear:  f.payment.ExpiryYear,
			CVVEntered:  f.payment.CVV != "",
		},
		Errors: append(ValidationErrors{}, f.errors...),
	}
}
