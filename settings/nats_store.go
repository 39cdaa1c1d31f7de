package settings

import (
	"context"
	"fmt"
	"log"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// Bus carries settings documents between storefront instances.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, fn func(data []byte)) (Subscription, error)
}

type natsBus struct {
	conn *nats.Conn
}

// NewNATSBus adapts a NATS connection to Bus.
func NewNATSBus(conn *nats.Conn) Bus {
	return &natsBus{conn: conn}
}

func (b *natsBus) Publish(subject string, data []byte) error {
	return b.conn.Publish(subject, data)
}

func (b *natsBus) Subscribe(subject string, fn func(data []byte)) (Subscription, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// NATSStore persists through an inner store and pushes every saved document
// to the other instances, so none of them has to poll.
type NATSStore struct {
	inner   Store
	bus     Bus
	subject string
}

func NewNATSStore(inner Store, bus Bus, subject string) *NATSStore {
	return &NATSStore{inner: inner, bus: bus, subject: subject}
}

func (n *NATSStore) Get(ctx context.Context) (Snapshot, error) {
	return n.inner.Get(ctx)
}

// Save writes through to the inner store, then broadcasts. A failed broadcast
// is logged; the document is already saved and pollers will still see it.
func (n *NATSStore) Save(ctx context.Context, s Snapshot) error {
	s = s.normalized()
	if err := n.inner.Save(ctx, s); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := n.bus.Publish(n.subject, data); err != nil {
		log.Printf("⚠️  settings broadcast on %s failed: %v", n.subject, err)
	}
	return nil
}

func (n *NATSStore) Subscribe(ctx context.Context, fn func(Snapshot)) (Subscription, error) {
	sub, err := n.bus.Subscribe(n.subject, func(data []byte) {
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			log.Printf("⚠️  ignoring invalid settings payload on %s: %v", n.subject, err)
			return
		}
		fn(s.normalized())
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", n.subject, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	return &busSubscription{sub: sub, stop: stop}, nil
}

type busSubscription struct {
	sub  Subscription
	stop func() bool
}

func (b *busSubscription) Unsubscribe() error {
	if !b.stop() {
		// ctx already ended and unsubscribed for us
		return nil
	}
	return b.sub.Unsubscribe()
}
