package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/lib/myuuid"
	"github.com/MarcGrol/printshop/services/cart/cartevents"
	"github.com/MarcGrol/printshop/services/catalog"
)

//go:generate mockgen -source=service.go -package cart -destination product_getter_mock.go ProductGetter
type ProductGetter interface {
	GetProduct(c context.Context, productUID string) (catalog.Product, error)
}

type service struct {
	cartStore mystore.Store[Cart]
	products  ProductGetter
	publisher mypublisher.Publisher
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Cart], products ProductGetter, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		cartStore: store,
		products:  products,
		publisher: pub,
		nower:     nower,
		uuider:    uuider,
		logger:    logger,
	}
}

func (s *service) createSession(c context.Context) (Cart, error) {
	sessionUID := s.uuider.Create()
	cart := New(sessionUID, s.nower.Now())

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Creating new session with uid %s", sessionUID)

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		err := s.cartStore.Put(c, sessionUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.SessionCreated{
			SessionUID: sessionUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	sessionsCreated.Inc()

	return cart, nil
}

func (s *service) getCart(c context.Context, sessionUID string) (Cart, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityDebug, "Fetch cart of session %s", sessionUID)

	cart, found, err := s.cartStore.Get(c, sessionUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{}, sessionNotFound(sessionUID)
	}

	return cart.clone(), nil
}

// GetTotal is used by checkout to display the amount; it never changes the cart.
func (s *service) GetTotal(c context.Context, sessionUID string) (decimal.Decimal, error) {
	cart, err := s.getCart(c, sessionUID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

func (s *service) addItem(c context.Context, sessionUID string, productUID string, quantity int) (Cart, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Add %d x product %s to cart of session %s", quantity, productUID, sessionUID)

	product, err := s.products.GetProduct(c, productUID)
	if err != nil {
		return Cart{}, err
	}

	cart, err := s.modifyCart(c, sessionUID, func(cart *Cart) {
		cart.Add(product, quantity)
	})
	if err != nil {
		return Cart{}, err
	}

	cartOperations.WithLabelValues("add").Inc()

	return cart, nil
}

func (s *service) updateQuantity(c context.Context, sessionUID string, productUID string, quantity int) (Cart, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Set quantity of product %s in cart of session %s to %d", productUID, sessionUID, quantity)

	cart, err := s.modifyCart(c, sessionUID, func(cart *Cart) {
		cart.UpdateQuantity(productUID, quantity)
	})
	if err != nil {
		return Cart{}, err
	}

	cartOperations.WithLabelValues("update").Inc()

	return cart, nil
}

func (s *service) removeItem(c context.Context, sessionUID string, productUID string) (Cart, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Remove product %s from cart of session %s", productUID, sessionUID)

	cart, err := s.modifyCart(c, sessionUID, func(cart *Cart) {
		cart.Remove(productUID)
	})
	if err != nil {
		return Cart{}, err
	}

	cartOperations.WithLabelValues("remove").Inc()

	return cart, nil
}

func (s *service) closeSession(c context.Context, sessionUID string) error {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Closing session %s", sessionUID)

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, found, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return sessionNotFound(sessionUID)
		}

		err = s.cartStore.Delete(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.SessionClosed{
			SessionUID: sessionUID,
			ItemCount:  cart.ItemCount(),
			Total:      cart.Total().StringFixed(2),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	sessionsClosed.Inc()

	return nil
}

func (s *service) modifyCart(c context.Context, sessionUID string, modify func(cart *Cart)) (Cart, error) {
	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		stored, found, err := s.cartStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return sessionNotFound(sessionUID)
		}

		cart = stored.clone()
		modify(&cart)
		cart.LastModified = &now

		err = s.cartStore.Put(c, sessionUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart.clone(), nil
}

func sessionNotFound(sessionUID string) error {
	return myerrors.NewNotFoundError(fmt.Errorf("session with uid %s not found", sessionUID))
}
