package checkoutstats

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/printshop/lib/mycontext"
	"github.com/MarcGrol/printshop/lib/myhttp"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/services/checkoutevents"
)

const EventPath = "/api/checkout/event"

type webService struct {
	logger  mylog.Logger
	service *service
}

// NewWebService keeps statistics of the checkout topic. Pubsub pushes its messages to baseURL+EventPath.
func NewWebService(store mystore.Store[Stats], subscriber Subscriber, baseURL string) *webService {
	logger := mylog.New("checkoutstats")
	return &webService{
		logger:  logger,
		service: newService(store, subscriber, baseURL+EventPath, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc(EventPath, s.handleEventEnvelope()).Methods("POST")
	router.HandleFunc("/api/checkout/stats", s.getStats()).Methods("GET")

	return s.service.Subscribe(c)
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

func (s *webService) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		stats, err := s.service.getStats(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, stats)
	}
}
