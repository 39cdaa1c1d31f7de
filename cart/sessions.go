package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNoCart = errors.New("cart not found")

type session struct {
	mu      sync.Mutex
	cart    *Cart
	touched time.Time
}

// Sessions holds the in-memory carts of storefront visitors, keyed by uuid.
type Sessions struct {
	mu      sync.RWMutex
	carts   map[string]*session
	baseFee decimal.Decimal
}

func NewSessions(baseFee decimal.Decimal) *Sessions {
	return &Sessions{carts: make(map[string]*session), baseFee: baseFee}
}

func (s *Sessions) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.carts[id] = &session{cart: New(s.baseFee), touched: time.Now()}
	s.mu.Unlock()
	return id
}

// With runs fn with exclusive access to the cart.
func (s *Sessions) With(id string, fn func(*Cart) error) error {
	s.mu.RLock()
	sess, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNoCart
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touched = time.Now()
	return fn(sess.cart)
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

// Expire drops carts idle for longer than ttl and returns how many were dropped.
func (s *Sessions) Expire(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.carts {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
