package cart

import (
	"context"
	"fmt"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/lib/mycontext"
	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/myhttp"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/lib/myuuid"
	"github.com/MarcGrol/printshop/services/cart/cartevents"
)

type addItemRequest struct {
	ProductUID string `form:"productUID"`
	Quantity   int    `form:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `form:"quantity"`
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(store mystore.Store[Cart], products ProductGetter, nower mytime.Nower, uuider myuuid.UUIDer, pub mypublisher.Publisher) *webService {
	logger := mylog.New("cart")
	return &webService{
		logger:  logger,
		service: newService(store, products, nower, uuider, logger, pub),
	}
}

// Totaler gives read-only access to cart totals.
type Totaler interface {
	GetTotal(c context.Context, sessionUID string) (decimal.Decimal, error)
}

func (s *webService) Totaler() Totaler {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	router.HandleFunc("/api/session", s.createSession()).Methods("POST")
	router.HandleFunc("/api/session/{sessionUID}", s.closeSession()).Methods("DELETE")
	router.HandleFunc("/api/session/{sessionUID}/cart", s.getCart()).Methods("GET")
	router.HandleFunc("/api/session/{sessionUID}/cart/items", s.addItem()).Methods("POST")
	router.HandleFunc("/api/session/{sessionUID}/cart/items/{productUID}", s.updateQuantity()).Methods("PUT")
	router.HandleFunc("/api/session/{sessionUID}/cart/items/{productUID}", s.removeItem()).Methods("DELETE")

	return nil
}

func (s *webService) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.createSession(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("%s/api/session/%s/cart", myhttp.HostnameWithScheme(r), cart.SessionUID))
		errorWriter.Write(c, w, http.StatusCreated, SessionCreated{
			SessionUID: cart.SessionUID,
			Cart:       cart.View(),
		})
	}
}

func (s *webService) getCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		cart, err := s.service.getCart(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart.View())
	}
}

func (s *webService) addItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		req := addItemRequest{}
		err := decodeForm(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}
		if req.ProductUID == "" {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputErrorf("missing productUID"))
			return
		}

		cart, err := s.service.addItem(c, sessionUID, req.ProductUID, req.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart.View())
	}
}

func (s *webService) updateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]
		productUID := mux.Vars(r)["productUID"]

		req := updateQuantityRequest{}
		err := decodeForm(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 5, err)
			return
		}
		if req.Quantity == nil {
			errorWriter.WriteError(c, w, 5, myerrors.NewInvalidInputErrorf("missing quantity"))
			return
		}

		cart, err := s.service.updateQuantity(c, sessionUID, productUID, *req.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart.View())
	}
}

func (s *webService) removeItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]
		productUID := mux.Vars(r)["productUID"]

		cart, err := s.service.removeItem(c, sessionUID, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 7, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart.View())
	}
}

func (s *webService) closeSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		err := s.service.closeSession(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 8, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("session %s closed", sessionUID),
		})
	}
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
