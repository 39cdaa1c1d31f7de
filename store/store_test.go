package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"srburger-api/cart"
	"srburger-api/delivery"
	"srburger-api/models"
	"srburger-api/order"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "orders.db")+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func record(id string, typ order.FulfillmentType, at time.Time) order.Record {
	change := d(20)
	tendered := d(500)
	r := order.Record{
		ID:       id,
		Customer: order.Customer{Name: "Ana", Phone: "9221593688"},
		Items: []order.Item{
			{Kind: cart.KindSimple, Name: "Clásica", Quantity: 2, UnitPrice: d(100), Price: d(200)},
			{Kind: cart.KindCombo, Name: "Combo Pareja", Quantity: 1, UnitPrice: d(240), Price: d(240), Customizations: "Clásica, Clásica"},
		},
		Subtotal:         d(440),
		Total:            d(440),
		DeliveryType:     typ,
		PaymentMethod:    order.PaymentCash,
		Tendered:         &tendered,
		Change:           &change,
		EstimatedMinutes: 25,
		CreatedAt:        at,
	}
	if typ == order.FulfillmentDelivery {
		r.Customer.Address = "Av. Juárez 100"
		r.DeliveryFee = d(40)
		r.Total = d(480)
		r.Zone = delivery.Near
		r.Location = &delivery.Point{Lat: 18, Lng: -94.5}
	}
	return r
}

func TestGormOrderStoreSubmitAndGet(t *testing.T) {
	s := NewGormOrderStore(openDB(t))
	ctx := context.Background()

	id, err := s.Submit(ctx, record("", order.FulfillmentDelivery, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("no id assigned")
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != models.StatusPending || !o.Total.Equal(d(480)) || len(o.Items) != 2 {
		t.Errorf("order = %+v", o)
	}
	if o.Items[0].Name != "Clásica" || o.Items[1].Customizations != "Clásica, Clásica" {
		t.Errorf("items out of order: %+v", o.Items)
	}
	if o.Lat == nil || *o.Lat != 18 || !o.Change.Valid || !o.Change.Decimal.Equal(d(20)) {
		t.Errorf("optional fields = %v %v", o.Lat, o.Change)
	}
	if len(o.StatusHistory) != 1 || o.StatusHistory[0].ToStatus != models.StatusPending {
		t.Errorf("history = %+v", o.StatusHistory)
	}
	if o.Message == "" {
		t.Error("rendered message not stored")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Get(missing) = %v", err)
	}
}

func TestGormOrderStoreSubmitIsIdempotent(t *testing.T) {
	db := openDB(t)
	s := NewGormOrderStore(db)
	ctx := context.Background()
	rec := record("order-1", order.FulfillmentPickup, time.Now())

	for i := 0; i < 3; i++ {
		if _, err := s.Submit(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	var n int64
	db.Model(&models.Order{}).Count(&n)
	if n != 1 {
		t.Errorf("orders = %d, want 1", n)
	}
	db.Model(&models.OrderItem{}).Count(&n)
	if n != 2 {
		t.Errorf("items = %d, want 2", n)
	}
}

func TestGormOrderStoreUpdateStatus(t *testing.T) {
	s := NewGormOrderStore(openDB(t))
	ctx := context.Background()
	id, _ := s.Submit(ctx, record("", order.FulfillmentDelivery, time.Now()))

	for _, to := range []models.OrderStatus{models.StatusConfirmed, models.StatusOnTheWay, models.StatusDelivered} {
		if _, err := s.UpdateStatus(ctx, id, to, 1, ""); err != nil {
			t.Fatalf("-> %s: %v", to, err)
		}
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != models.StatusDelivered || len(o.StatusHistory) != 4 {
		t.Fatalf("status %s with %d history rows", o.Status, len(o.StatusHistory))
	}
	wantHistory := []struct{ from, to models.OrderStatus }{
		{"", models.StatusPending},
		{models.StatusPending, models.StatusConfirmed},
		{models.StatusConfirmed, models.StatusOnTheWay},
		{models.StatusOnTheWay, models.StatusDelivered},
	}
	for i, w := range wantHistory {
		if h := o.StatusHistory[i]; h.FromStatus != w.from || h.ToStatus != w.to {
			t.Errorf("history[%d] = %s -> %s, want %s -> %s", i, h.FromStatus, h.ToStatus, w.from, w.to)
		}
	}

	if _, err := s.UpdateStatus(ctx, id, models.StatusCancelled, 1, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel delivered order: %v", err)
	}
	pid, _ := s.Submit(ctx, record("", order.FulfillmentPickup, time.Now()))
	s.UpdateStatus(ctx, pid, models.StatusConfirmed, 1, "")
	if _, err := s.UpdateStatus(ctx, pid, models.StatusOnTheWay, 1, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pickup order sent on the way: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, "missing", models.StatusConfirmed, 1, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("missing order: %v", err)
	}
}

func TestGormOrderStoreList(t *testing.T) {
	s := NewGormOrderStore(openDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.Submit(ctx, record("", order.FulfillmentPickup, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	orders, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 || !orders[0].PlacedAt.After(orders[2].PlacedAt) {
		t.Fatalf("List() not newest first")
	}
	s.UpdateStatus(ctx, orders[0].ID, models.StatusConfirmed, 1, "")

	confirmed, _ := s.List(ctx, ListFilter{Status: models.StatusConfirmed})
	if len(confirmed) != 1 || confirmed[0].ID != orders[0].ID {
		t.Errorf("filtered list = %d orders", len(confirmed))
	}
	limited, _ := s.List(ctx, ListFilter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("limited list = %d orders", len(limited))
	}
}

func TestFallbackStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fallback")
	f := NewFallbackStore(dir)

	if p, err := f.Pending(); err != nil || len(p) != 0 {
		t.Fatalf("Pending() on missing dir = %v, %v", p, err)
	}

	base := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	if _, err := f.Save(record("b", order.FulfillmentPickup, base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Save(record("a", order.FulfillmentDelivery, base)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "0_broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	pending, err := f.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].Record.ID != "a" || pending[1].Record.ID != "b" {
		t.Fatalf("pending = %+v", pending)
	}
	got := pending[0].Record
	if !got.Total.Equal(d(480)) || got.Location == nil || got.Change == nil || !got.Change.Equal(d(20)) {
		t.Errorf("record did not survive the file: %+v", got)
	}

	if err := f.Remove(pending[0].Path); err != nil {
		t.Fatal(err)
	}
	if pending, _ := f.Pending(); len(pending) != 1 {
		t.Errorf("after Remove: %d pending", len(pending))
	}
}

// flakyStore fails while down is set.
type flakyStore struct {
	mu   sync.Mutex
	down bool
	ids  []string
}

func (f *flakyStore) Submit(_ context.Context, rec order.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return "", errors.New("connection refused")
	}
	f.ids = append(f.ids, rec.ID)
	return rec.ID, nil
}

func TestSubmitterFallsBackAndReplays(t *testing.T) {
	primary := &flakyStore{down: true}
	fb := NewFallbackStore(t.TempDir())
	s := NewSubmitter(primary, fb)
	ctx := context.Background()

	r1, err := s.Submit(ctx, record("", order.FulfillmentPickup, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if !r1.Fallback || r1.ID == "" {
		t.Errorf("receipt = %+v", r1)
	}
	r2, _ := s.Submit(ctx, record("", order.FulfillmentPickup, time.Now().Add(time.Second)))

	if n, err := s.Replay(ctx); n != 0 || err == nil {
		t.Errorf("Replay while down = %d, %v", n, err)
	}

	primary.mu.Lock()
	primary.down = false
	primary.mu.Unlock()

	n, err := s.Replay(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Replay = %d, %v", n, err)
	}
	if len(primary.ids) != 2 || primary.ids[0] != r1.ID || primary.ids[1] != r2.ID {
		t.Errorf("replayed ids = %v", primary.ids)
	}
	if p, _ := fb.Pending(); len(p) != 0 {
		t.Errorf("%d orders left in fallback", len(p))
	}

	r3, err := s.Submit(ctx, record("", order.FulfillmentPickup, time.Now()))
	if err != nil || r3.Fallback {
		t.Errorf("healthy submit = %+v, %v", r3, err)
	}
}

func TestSubmitterBothStoresDown(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// the fallback dir cannot be created under a regular file
	s := NewSubmitter(&flakyStore{down: true}, NewFallbackStore(filepath.Join(blocker, "orders")))
	if _, err := s.Submit(context.Background(), record("", order.FulfillmentPickup, time.Now())); err == nil {
		t.Error("expected an error when both stores fail")
	}
}
