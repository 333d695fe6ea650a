package checkoutstats

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mypubsub"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

func TestCheckoutStats(t *testing.T) {
	t.Run("Subscribes on registration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, _, pubsub, _ := setup(t, ctrl)

		// then
		assert.Equal(t, []string{"http://localhost:8080/api/checkout/event"}, pubsub.Subscriptions(checkoutevents.TopicName))
	})

	t.Run("Empty stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		stats := fetchStats(t, router)

		// then
		assert.Equal(t, 0, stats.Started)
		assert.Equal(t, "0", stats.Revenue.String())
	})

	t.Run("Pushed events are counted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, pubsub, publisher := setup(t, ctrl)
		paypalBefore := testutil.ToFloat64(ordersConfirmed.WithLabelValues("paypal"))
		replacedBefore := testutil.ToFloat64(checkoutsClosed.WithLabelValues("replaced"))

		// given
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "1", Total: "9.98"}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutClosed{SessionUID: "1", Reason: checkoutevents.CloseReasonReplaced}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "1", Total: "9.98"}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutConfirmed{SessionUID: "1", Total: "9.98", PaymentMethod: "paypal"}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutClosed{SessionUID: "1", Reason: checkoutevents.CloseReasonCompleted}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutStarted{SessionUID: "2", Total: "12.50"}))
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutConfirmed{SessionUID: "2", Total: "12.50", PaymentMethod: "credit-card"}))

		// when
		bodies, err := pubsub.PushRequests(checkoutevents.TopicName)
		require.NoError(t, err)
		for _, body := range bodies {
			response := doPush(router, body)
			assert.Equal(t, 200, response.Code, response.Body.String())
		}

		// then
		stats := fetchStats(t, router)
		assert.Equal(t, 3, stats.Started)
		assert.Equal(t, 2, stats.Confirmed)
		assert.Equal(t, map[checkoutevents.CloseReason]int{"replaced": 1, "completed": 1}, stats.Closed)
		assert.Equal(t, map[string]int{"paypal": 1, "credit-card": 1}, stats.ByPaymentMethod)
		assert.Equal(t, "22.48", stats.Revenue.StringFixed(2))
		assert.Equal(t, paypalBefore+1, testutil.ToFloat64(ordersConfirmed.WithLabelValues("paypal")))
		assert.Equal(t, replacedBefore+1, testutil.ToFloat64(checkoutsClosed.WithLabelValues("replaced")))
	})

	t.Run("Invalid total is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, pubsub, publisher := setup(t, ctrl)

		// given
		require.NoError(t, publisher.Publish(ctx, checkoutevents.TopicName, checkoutevents.CheckoutConfirmed{SessionUID: "1", Total: "lots", PaymentMethod: "paypal"}))
		bodies, err := pubsub.PushRequests(checkoutevents.TopicName)
		require.NoError(t, err)

		// when
		response := doPush(router, bodies[0])

		// then
		assert.Equal(t, 400, response.Code)
		assert.Equal(t, 0, fetchStats(t, router).Confirmed)
	})

	t.Run("Garbage push request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		response := doPush(router, []byte("garbage"))

		// then
		assert.Equal(t, 400, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, *mypubsub.FakePubSub, mypublisher.Publisher) {
	c := context.TODO()
	router := mux.NewRouter()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	pubsub := mypubsub.NewFakePubSub()
	publisher := mypublisher.New(pubsub, nower)

	store, _, err := mystore.New[Stats](c)
	require.NoError(t, err)

	err = NewWebService(store, pubsub, "http://localhost:8080").RegisterEndpoints(c, router)
	require.NoError(t, err)

	return c, router, pubsub, publisher
}

func doPush(router *mux.Router, body []byte) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, EventPath, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func fetchStats(t *testing.T, router *mux.Router) Stats {
	request, err := http.NewRequest(http.MethodGet, "/api/checkout/stats", nil)
	require.NoError(t, err)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	require.Equal(t, 200, response.Code)

	stats := Stats{}
	err = json.NewDecoder(strings.NewReader(response.Body.String())).Decode(&stats)
	require.NoError(t, err)
	return stats
}
