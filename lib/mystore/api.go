package mystore

import (
	"context"
)

// ctxTransactionKey marks a context as running inside a transaction of one particular store.
type ctxTransactionKey struct {
	store any
}

type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
}

// New returns an in-memory store: everything kept here lives as long as the process.
func New[T any](c context.Context) (Store[T], func(), error) {
	return NewInMemoryStore[T](c)
}
