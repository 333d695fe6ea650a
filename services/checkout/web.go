package checkout

import (
	"context"
	"fmt"
	"net/http"
	"time"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/printshop/lib/mycontext"
	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/myhttp"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

type paymentRequest struct {
	Method      string `form:"paymentMethod"`
	CardName    string `form:"cardName"`
	CardNumber  string `form:"cardNumber"`
	ExpiryMonth string `form:"expiryMonth"`
	ExpiryYear  string `form:"expiryYear"`
	CVV         string `form:"cvv"`
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(store mystore.Store[*Flow], totaler CartTotaler, scheduler mytime.Scheduler, closeDelay time.Duration, pub mypublisher.Publisher) *webService {
	logger := mylog.New("checkout")
	return &webService{
		logger:  logger,
		service: newService(store, totaler, scheduler, closeDelay, logger, pub),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	router.HandleFunc("/api/session/{sessionUID}/checkout", s.openCheckout()).Methods("POST")
	router.HandleFunc("/api/session/{sessionUID}/checkout", s.getCheckout()).Methods("GET")
	router.HandleFunc("/api/session/{sessionUID}/checkout", s.cancelCheckout()).Methods("DELETE")
	router.HandleFunc("/api/session/{sessionUID}/checkout/details", s.submitDetails()).Methods("POST")
	router.HandleFunc("/api/session/{sessionUID}/checkout/back", s.goBack()).Methods("POST")
	router.HandleFunc("/api/session/{sessionUID}/checkout/payment", s.submitPayment()).Methods("POST")

	return nil
}

func (s *webService) openCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		view, err := s.service.openCheckout(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusCreated, view)
	}
}

func (s *webService) getCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		view, err := s.service.getCheckout(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) submitDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		details := ShippingDetails{}
		err := decodeForm(r, &details)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		view, err := s.service.submitDetails(c, sessionUID, details)
		writeView(c, w, errorWriter, 4, view, err)
	}
}

func (s *webService) goBack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		view, err := s.service.goBack(c, sessionUID)
		writeView(c, w, errorWriter, 5, view, err)
	}
}

func (s *webService) submitPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		req := paymentRequest{}
		err := decodeForm(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		view, err := s.service.submitPayment(c, sessionUID, req.Method, CardDetails{
			CardName:    req.CardName,
			CardNumber:  req.CardNumber,
			ExpiryMonth: req.ExpiryMonth,
			ExpiryYear:  req.ExpiryYear,
			CVV:         req.CVV,
		})
		writeView(c, w, errorWriter, 7, view, err)
	}
}

func (s *webService) cancelCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		view, err := s.service.cancelCheckout(c, sessionUID)
		writeView(c, w, errorWriter, 8, view, err)
	}
}

// writeView returns the view along with a rejected form, so the client can show the field errors.
func writeView(c context.Context, w http.ResponseWriter, errorWriter myhttp.ResponseWriter, errorCode int, view View, err error) {
	if err != nil {
		if myerrors.GetHTTPStatus(err) == http.StatusUnprocessableEntity {
			errorWriter.Write(c, w, http.StatusUnprocessableEntity, view)
			return
		}
		errorWriter.WriteError(c, w, errorCode, err)
		return
	}

	errorWriter.Write(c, w, http.StatusOK, view)
}

func decodeForm(r *http.Request, target interface{}) error {
	err := r.ParseForm()
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	err = formcodec.NewDecoder().Decode(target, r.Form)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err))
	}

	return nil
}
