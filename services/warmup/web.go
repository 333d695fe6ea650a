package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/printshop/lib/mycontext"
	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/myhttp"
	"github.com/MarcGrol/printshop/lib/mylog"
)

// Check reports whether a dependency is ready to serve traffic.
type Check func(c context.Context) error

type webService struct {
	logger mylog.Logger
	checks []Check
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checks ...Check) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger: logger,
		checks: checks,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		for _, check := range s.checks {
			err := check(c)
			if err != nil {
				errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
				return
			}
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
