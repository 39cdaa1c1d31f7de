package settings

import (
	"context"
	"log"
	"sync"
	"time"
)

// Service owns this instance's cached copy of the settings document. Readers
// get the current snapshot by value; admin operations save back to the store.
type Service struct {
	store Store
	now   func() time.Time

	mu     sync.RWMutex
	snap   Snapshot
	synced bool

	writeMu sync.Mutex
	sub     Subscription
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, snap: Default()}
}

// Start loads the document and subscribes to changes. Store failures are
// logged and leave the service running on defaults, marked unsynced.
func (s *Service) Start(ctx context.Context) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		log.Printf("⚠️  settings store unavailable, running with defaults: %v", err)
		s.set(Default(), false)
	} else {
		s.set(snap, true)
	}

	sub, err := s.store.Subscribe(ctx, s.apply)
	if err != nil {
		log.Printf("⚠️  settings subscription failed: %v", err)
		return
	}
	s.sub = sub
	log.Println("✅ Settings loaded and subscribed")
}

// Stop cancels the subscription.
func (s *Service) Stop() error {
	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.sub = nil
	return err
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.HiddenProductIDs = append([]int(nil), s.snap.HiddenProductIDs...)
	return snap
}

// Synced is false while local state may differ from the store.
func (s *Service) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// apply takes an update from the store as authoritative. While synced, a
// snapshot no newer than the cached one is a repeat or a read that raced a
// local save, and is dropped.
func (s *Service) apply(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synced && !snap.LastUpdated.After(s.snap.LastUpdated) {
		return
	}
	s.snap = snap.normalized()
	s.synced = true
}

func (s *Service) set(snap Snapshot, synced bool) {
	snap = snap.normalized()
	s.mu.Lock()
	s.snap = snap
	s.synced = synced
	s.mu.Unlock()
}

func (s *Service) SetServiceActive(ctx context.Context, by string, active bool) Snapshot {
	return s.update(ctx, by, func(next *Snapshot) { next.ServiceActive = active })
}

// ToggleProduct hides a visible product or shows a hidden one.
func (s *Service) ToggleProduct(ctx context.Context, by string, productID int) Snapshot {
	return s.update(ctx, by, func(next *Snapshot) {
		if next.Hidden(productID) {
			next.HiddenProductIDs = without(next.HiddenProductIDs, productID)
			return
		}
		next.HiddenProductIDs = append(next.HiddenProductIDs, productID)
	})
}

func (s *Service) ShowAll(ctx context.Context, by string) Snapshot {
	return s.update(ctx, by, func(next *Snapshot) { next.HiddenProductIDs = []int{} })
}

func (s *Service) HideAll(ctx context.Context, by string, productIDs []int) Snapshot {
	return s.update(ctx, by, func(next *Snapshot) {
		next.HiddenProductIDs = append([]int(nil), productIDs...)
	})
}

// Reset restores the defaults: service on, nothing hidden.
func (s *Service) Reset(ctx context.Context, by string) Snapshot {
	return s.update(ctx, by, func(next *Snapshot) { *next = Default() })
}

// update applies fn to a copy of the current snapshot and installs the
// result locally before saving it. A failed save keeps the local change.
func (s *Service) update(ctx context.Context, by string, fn func(*Snapshot)) Snapshot {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	fn(&next)
	next.UpdatedBy = by
	next.LastUpdated = s.now().UTC()
	next = next.normalized()

	if err := s.store.Save(ctx, next); err != nil {
		log.Printf("⚠️  settings saved locally only: %v", err)
		s.set(next, false)
		return next
	}
	s.set(next, true)
	return next
}

func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
