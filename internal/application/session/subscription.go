package session

import (
	"sync"
	"sync/atomic"
)

// Subscription registro de un handler en el Store.
type Subscription struct {
	id      uint64
	handler Handler
	store   *Store
	closed  atomic.Bool
	once    sync.Once
}

// Unsubscribe da de baja el handler. Puede llamarse varias veces y desde el propio handler;
// a partir del retorno el handler no recibe eventos nuevos.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.closed.Store(true)
		s.store.remove(s)
	})
}

func (s *Subscription) active() bool { return !s.closed.Load() }
