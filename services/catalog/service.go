package catalog

import (
	"context"
	"fmt"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mylog"
)

const relatedLimit = 4

type service struct {
	catalog *Catalog
	logger  mylog.Logger
}

func newService(catalog *Catalog, logger mylog.Logger) *service {
	return &service{
		catalog: catalog,
		logger:  logger,
	}
}

// GetProduct is used by the cart to resolve product references.
func (s *service) GetProduct(c context.Context, productUID string) (Product, error) {
	product, found := s.catalog.Get(productUID)
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}
	return product, nil
}

func (s *service) getProductDetail(c context.Context, productUID string) (ProductDetail, error) {
	product, err := s.GetProduct(c, productUID)
	if err != nil {
		return ProductDetail{}, err
	}

	return ProductDetail{
		Product: product,
		Related: s.catalog.Related(productUID, relatedLimit),
	}, nil
}

func (s *service) searchProducts(c context.Context, q Query) []Product {
	products := s.catalog.Search(q)
	s.logger.Log(c, "", mylog.SeverityDebug, "Search %+v returned %d products", q, len(products))
	return products
}
