package settings

import (
	"context"
	"sort"
	"time"
)

// Snapshot is the admin switchboard as one immutable value. Updates always
// replace a snapshot wholesale.
type Snapshot struct {
	ServiceActive    bool      `json:"service_active"`
	HiddenProductIDs []int     `json:"hidden_product_ids"`
	UpdatedBy        string    `json:"updated_by,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Default is what the storefront runs with before the store answers.
func Default() Snapshot {
	return Snapshot{ServiceActive: true, HiddenProductIDs: []int{}}
}

func (s Snapshot) Hidden(productID int) bool {
	i := sort.SearchInts(s.HiddenProductIDs, productID)
	return i < len(s.HiddenProductIDs) && s.HiddenProductIDs[i] == productID
}

// normalized returns a copy with sorted, unique hidden ids.
func (s Snapshot) normalized() Snapshot {
	ids := make([]int, 0, len(s.HiddenProductIDs))
	seen := make(map[int]bool, len(s.HiddenProductIDs))
	for _, id := range s.HiddenProductIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	s.HiddenProductIDs = ids
	return s
}

// Subscription is a cancellable handle on a store subscription.
type Subscription interface {
	Unsubscribe() error
}

// Store is the shared settings document.
type Store interface {
	Get(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	// Subscribe calls fn with every new version of the document until the
	// subscription is cancelled or ctx ends.
	Subscribe(ctx context.Context, fn func(Snapshot)) (Subscription, error)
}
