package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

var (
	detailsForm = url.Values{
		"firstName": {"Jane"},
		"lastName":  {"Doe"},
		"email":     {"jane@doe.com"},
		"phone":     {"+31612345678"},
		"address":   {"Heemdstrakwartier 79"},
		"city":      {"De Bilt"},
		"state":     {"Utrecht"},
		"zipCode":   {"3731TB"},
		"country":   {"NL"},
	}
	cardForm = url.Values{
		"paymentMethod": {"credit-card"},
		"cardName":      {"Jane Doe"},
		"cardNumber":    {"4111 1111 1111 1111"},
		"expiryMonth":   {"12"},
		"expiryYear":    {"29"},
		"cvv":           {"123"},
	}
)

func TestCheckoutService(t *testing.T) {

	t.Run("Open checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, totaler, publisher := setup(t, ctrl)

		// given
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("9.98"), nil).AnyTimes()
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "123", Total: "9.98"})

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout", nil)

		// then
		assert.Equal(t, 201, response.Code)
		view := parseView(t, response)
		assert.Equal(t, StepDetails, view.Step)
		assert.Equal(t, "9.98", view.Total)
		assert.Equal(t, CreditCard, view.Payment.Method)
		assert.Empty(t, view.Errors)
	})

	t.Run("Open checkout for unknown session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, totaler, _ := setup(t, ctrl)

		// given
		totaler.EXPECT().GetTotal(gomock.Any(), "456").Return(decimal.Zero, myerrors.NewNotFoundError(fmt.Errorf("session with uid 456 not found")))

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/456/checkout", nil)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Get checkout not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(t, router, http.MethodGet, "/api/session/123/checkout", nil)

		// then
		assert.Equal(t, 404, response.Code)
		assert.Contains(t, response.Body.String(), "no checkout for session 123")
	})

	t.Run("Invalid details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, scheduler, totaler, _ := setup(t, ctrl)

		// given
		givenOpenFlow(ctx, storer, scheduler)
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("9.98"), nil).AnyTimes()

		form := cloneForm(detailsForm)
		form.Set("email", "john@doe")
		form.Del("city")

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout/details", form)

		// then
		assert.Equal(t, 422, response.Code)
		view := parseView(t, response)
		assert.Equal(t, StepDetails, view.Step)
		assert.Equal(t, ValidationErrors{
			{Field: "email", Kind: InvalidFormat, Message: "Please enter a valid email"},
			{Field: "city", Kind: MissingField, Message: "City is required"},
		}, view.Errors)
		assert.Equal(t, "Jane", view.Details.FirstName)
	})

	t.Run("Back without payment step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, scheduler, totaler, _ := setup(t, ctrl)

		// given
		givenOpenFlow(ctx, storer, scheduler)
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("9.98"), nil).AnyTimes()

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout/back", nil)

		// then
		assert.Equal(t, 409, response.Code)
		assert.Contains(t, response.Body.String(), "BackRequested not allowed in step details")
	})

	t.Run("Unknown payment method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, scheduler, totaler, _ := setup(t, ctrl)

		// given
		flow := givenOpenFlow(ctx, storer, scheduler)
		fillDetails(t, flow, validDetails())
		flow.Dispatch(DetailsSubmitted{})
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("9.98"), nil).AnyTimes()

		form := cloneForm(cardForm)
		form.Set("paymentMethod", "bitcoin")

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout/payment", form)

		// then
		assert.Equal(t, 400, response.Code)
		assert.Equal(t, CreditCard, flow.Payment().Method)
		assert.Equal(t, StepPayment, flow.Step())
	})

	t.Run("Cancel checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, scheduler, totaler, publisher := setup(t, ctrl)

		// given
		flow := givenOpenFlow(ctx, storer, scheduler)
		fillDetails(t, flow, validDetails())
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("9.98"), nil).AnyTimes()
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutClosed{SessionUID: "123", Reason: checkoutevents.CloseReasonCancelled})

		// when
		response := doRequest(t, router, http.MethodDelete, "/api/session/123/checkout", nil)

		// then
		assert.Equal(t, 200, response.Code)
		view := parseView(t, response)
		assert.Equal(t, StepClosed, view.Step)
		assert.Equal(t, ShippingDetails{}, view.Details)
	})

	t.Run("Full checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, scheduler, totaler, publisher := setup(t, ctrl)

		// given
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("14.97"), nil).AnyTimes()
		gomock.InOrder(
			publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "123", Total: "14.97"}),
			publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutConfirmed{SessionUID: "123", Total: "14.97", PaymentMethod: "credit-card"}),
			publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutClosed{SessionUID: "123", Reason: checkoutevents.CloseReasonCompleted}),
		)

		// when: open
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout", nil)
		assert.Equal(t, 201, response.Code)

		// when: invalid details
		response = doRequest(t, router, http.MethodPost, "/api/session/123/checkout/details", url.Values{})
		assert.Equal(t, 422, response.Code)
		view := parseView(t, response)
		assert.Equal(t, StepDetails, view.Step)
		assert.Len(t, view.Errors, 9)

		// when: valid details
		response = doRequest(t, router, http.MethodPost, "/api/session/123/checkout/details", detailsForm)
		assert.Equal(t, 200, response.Code)
		view = parseView(t, response)
		assert.Equal(t, StepPayment, view.Step)
		assert.Empty(t, view.Errors)

		// when: invalid payment
		form := cloneForm(cardForm)
		form.Set("cardNumber", "411111")
		response = doRequest(t, router, http.MethodPost, "/api/session/123/checkout/payment", form)
		assert.Equal(t, 422, response.Code)
		view = parseView(t, response)
		assert.Equal(t, StepPayment, view.Step)
		assert.Equal(t, ValidationErrors{{Field: "cardNumber", Kind: InvalidLength, Message: "Card number must be 16 digits"}}, view.Errors)

		// when: valid payment
		response = doRequest(t, router, http.MethodPost, "/api/session/123/checkout/payment", cardForm)
		assert.Equal(t, 200, response.Code)
		view = parseView(t, response)
		assert.Equal(t, StepConfirmation, view.Step)
		assert.Equal(t, "************1111", view.Payment.CardNumber)
		assert.Equal(t, "14.97", view.Total)

		// when: delay elapsed
		assert.Equal(t, []time.Duration{2 * time.Second}, scheduler.Pending())
		scheduler.FireAll()

		// then
		response = doRequest(t, router, http.MethodGet, "/api/session/123/checkout", nil)
		assert.Equal(t, 200, response.Code)
		view = parseView(t, response)
		assert.Equal(t, StepClosed, view.Step)
		assert.Equal(t, ShippingDetails{}, view.Details)
		assert.Equal(t, PaymentView{Method: CreditCard}, view.Payment)
	})

	t.Run("Reopen replaces checkout in progress", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, scheduler, totaler, publisher := setup(t, ctrl)

		// given
		flow := givenOpenFlow(ctx, storer, scheduler)
		fillDetails(t, flow, validDetails())
		totaler.EXPECT().GetTotal(gomock.Any(), "123").Return(decimal.RequireFromString("4.99"), nil).AnyTimes()
		gomock.InOrder(
			publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutClosed{SessionUID: "123", Reason: checkoutevents.CloseReasonReplaced}),
			publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "123", Total: "4.99"}),
		)

		// when
		response := doRequest(t, router, http.MethodPost, "/api/session/123/checkout", nil)

		// then
		assert.Equal(t, 201, response.Code)
		view := parseView(t, response)
		assert.Equal(t, StepDetails, view.Step)
		assert.Equal(t, ShippingDetails{}, view.Details)
	})
}

func givenOpenFlow(c context.Context, storer mystore.Store[*Flow], scheduler mytime.Scheduler) *Flow {
	flow := NewFlow("123", scheduler, 2*time.Second, nil)
	flow.Open()
	storer.Put(c, "123", flow)
	return flow
}

func cloneForm(form url.Values) url.Values {
	result := url.Values{}
	for k, v := range form {
		result[k] = append([]string{}, v...)
	}
	return result
}

func parseView(t *testing.T, response *httptest.ResponseRecorder) View {
	view := View{}
	err := json.Unmarshal(response.Body.Bytes(), &view)
	assert.NoError(t, err)
	return view
}

func doRequest(t *testing.T, router *mux.Router, method string, path string, form url.Values) *httptest.ResponseRecorder {
	var request *http.Request
	var err error
	if form != nil {
		request, err = http.NewRequest(method, path, strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		request, err = http.NewRequest(method, path, nil)
	}
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[*Flow], *mytime.FakeScheduler, *MockCartTotaler, *mypublisher.MockPublisher) {
	c := context.TODO()
	storer, _, _ := mystore.New[*Flow](c)
	scheduler := mytime.NewFakeScheduler()
	totaler := NewMockCartTotaler(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	publisher.EXPECT().CreateTopic(gomock.Any(), checkoutevents.TopicName).Return(nil)

	router := mux.NewRouter()
	sut := NewWebService(storer, totaler, scheduler, 2*time.Second, publisher)
	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer, scheduler, totaler, publisher
}
