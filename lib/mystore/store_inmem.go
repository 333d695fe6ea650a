package mystore

import (
	"context"
	"sort"
	"sync"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if s.inTransaction(c) {
		// nested: the outer transaction already holds the lock
		return f(c)
	}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	ctx := context.WithValue(c, ctxTransactionKey{store: s}, true)

	// Within this block everything is transactional
	return f(ctx)
}

// inTransaction only looks at transactions of this store: a transaction on another store holds another lock.
func (s *InMemoryStore[T]) inTransaction(c context.Context) bool {
	return c.Value(ctxTransactionKey{store: s}) != nil
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := !s.inTransaction(c)

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := !s.inTransaction(c)

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.Items[uid]

	return result, exists, nil
}

func (s *InMemoryStore[T]) Delete(c context.Context, uid string) error {
	nonTransactional := !s.inTransaction(c)

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	delete(s.Items, uid)

	return nil
}

// List returns all items ordered by uid.
func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := !s.inTransaction(c)

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	uids := make([]string, 0, len(s.Items))
	for uid := range s.Items {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	result := make([]T, 0, len(s.Items))
	for _, uid := range uids {
		result = append(result, s.Items[uid])
	}

	return result, nil
}
