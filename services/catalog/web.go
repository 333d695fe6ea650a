package catalog

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
)

type ProductList struct {
	Products []Product       `json:"products"`
	Count    int             `json:"count"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
}

type webService struct {
	logger  mylog.Logger
	service *service
	decoder *formcodec.Decoder
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(catalog *Catalog) *webService {
	logger := mylog.New("catalog")

	return &webService{
		logger:  logger,
		service: newService(catalog, logger),
		decoder: newQueryDecoder(),
	}
}

// ProductGetter exposes product lookup to other services.
type ProductGetter interface {
	GetProduct(c context.Context, productUID string) (Product, error)
}

func (s *webService) ProductGetter() ProductGetter {
	return s.service
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/products", s.searchProducts()).Methods("GET")
	router.HandleFunc("/api/products/featured", s.featuredProducts()).Methods("GET")
	router.HandleFunc("/api/products/{productUID}", s.getProduct()).Methods("GET")
	router.HandleFunc("/api/categories", s.listCategories()).Methods("GET")

	return nil
}

func (s *webService) searchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		q, err := s.parseQuery(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		products := s.service.searchProducts(c, q)

		errorWriter.Write(c, w, http.StatusOK, ProductList{
			Products: products,
			Count:    len(products),
			MaxPrice: s.service.catalog.MaxPrice(),
		})
	}
}

func (s *webService) featuredProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products := s.service.catalog.Featured()

		errorWriter.Write(c, w, http.StatusOK, ProductList{
			Products: products,
			Count:    len(products),
			MaxPrice: s.service.catalog.MaxPrice(),
		})
	}
}

func (s *webService) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		detail, err := s.service.getProductDetail(c, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, detail)
	}
}

func (s *webService) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		errorWriter.Write(c, w, http.StatusOK, s.service.catalog.Categories())
	}
}

func (s *webService) parseQuery(r *http.Request) (Query, error) {
	err := r.ParseForm()
	if err != nil {
		return Query{}, myerrors.NewInvalidInputError(err)
	}

	q := Query{}
	err = s.decoder.Decode(&q, r.Form)
	if err != nil {
		return Query{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing query: %s", err))
	}

	q.Sort, err = ParseSortOrder(string(q.Sort))
	if err != nil {
		return Query{}, myerrors.NewInvalidInputError(err)
	}

	return q, nil
}

func newQueryDecoder() *formcodec.Decoder {
	decoder := formcodec.NewDecoder()
	decoder.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if len(vals) == 0 || vals[0] == "" {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(vals[0])
		if err != nil {
			return nil, err
		}
		return decimal.NewNullDecimal(d), nil
	}, decimal.NullDecimal{})
	return decoder
}
