package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"srburger-api/order"

	"github.com/google/uuid"
)

// Receipt tells the caller where an order ended up.
type Receipt struct {
	ID       string `json:"id"`
	Fallback bool   `json:"fallback"`
}

// Submitter sends orders to the primary store and parks them in the fallback
// store when that fails. Replay delivers parked orders later, at least once.
type Submitter struct {
	primary  OrderStore
	fallback *FallbackStore
}

func NewSubmitter(primary OrderStore, fallback *FallbackStore) *Submitter {
	return &Submitter{primary: primary, fallback: fallback}
}

// Submit returns an error only when both stores refuse the order.
func (s *Submitter) Submit(ctx context.Context, rec order.Record) (Receipt, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	id, err := s.primary.Submit(ctx, rec)
	if err == nil {
		return Receipt{ID: id}, nil
	}
	log.Printf("⚠️  order %s not stored, keeping it locally: %v", rec.ID, err)

	path, ferr := s.fallback.Save(rec)
	if ferr != nil {
		return Receipt{}, fmt.Errorf("order %s lost: primary: %v; fallback: %w", rec.ID, err, ferr)
	}
	log.Printf("💾 order %s saved to %s", rec.ID, path)
	return Receipt{ID: rec.ID, Fallback: true}, nil
}

// Replay re-submits parked orders oldest first and removes each one the
// primary store accepts. It stops at the first failure.
func (s *Submitter) Replay(ctx context.Context) (int, error) {
	pending, err := s.fallback.Pending()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := s.primary.Submit(ctx, p.Record); err != nil {
			return n, fmt.Errorf("replay order %s: %w", p.Record.ID, err)
		}
		if err := s.fallback.Remove(p.Path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Run replays on every tick until ctx ends.
func (s *Submitter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Replay(ctx)
			if n > 0 {
				log.Printf("✅ replayed %d fallback orders", n)
			}
			if err != nil && ctx.Err() == nil {
				log.Printf("⚠️  fallback replay: %v", err)
			}
		}
	}
}
