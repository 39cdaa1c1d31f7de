package store

import (
	"context"
	"errors"
	"fmt"

	"srburger-api/models"
	"srburger-api/order"
	"srburger-api/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderStore accepts composed orders and returns their id.
type OrderStore interface {
	Submit(ctx context.Context, rec order.Record) (string, error)
}

// GormOrderStore is the primary order store.
type GormOrderStore struct {
	db *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// Submit stores rec with its lines and an initial PENDING history entry.
// Submitting a record whose id is already stored is a no-op, so replays
// never duplicate an order.
func (s *GormOrderStore) Submit(ctx context.Context, rec order.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := toModel(rec)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("id = ?", row.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:  row.ID,
			ToStatus: models.StatusPending,
			Note:     "Order placed",
		}).Error
	})
	if err != nil {
		return "", fmt.Errorf("store order: %w", err)
	}
	return row.ID, nil
}

type ListFilter struct {
	Status models.OrderStatus
	Limit  int
}

// List returns orders newest first, with their lines.
func (s *GormOrderStore) List(ctx context.Context, f ListFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Order("placed_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *GormOrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateStatus moves an order along its fulfillment flow and records who did it.
func (s *GormOrderStore) UpdateStatus(ctx context.Context, id string, to models.OrderStatus, by uint, note string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		// Update writes the new status back into o.
		from := o.Status
		flow := order.FulfillmentType(o.DeliveryType)
		if err := statemachine.CanTransition(from, to, flow); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		if err := tx.Model(&o).Update("status", to).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    o.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  by,
			Note:       note,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func toModel(rec order.Record) models.Order {
	o := models.Order{
		ID:            rec.ID,
		CustomerName:  rec.Customer.Name,
		CustomerPhone: rec.Customer.Phone,
		Address:       rec.Customer.Address,
		DeliveryType:  string(rec.DeliveryType),
		Zone:          string(rec.Zone),
		DistanceKm:    rec.DistanceKm,
		PaymentMethod: string(rec.PaymentMethod),
		Subtotal:      rec.Subtotal,
		DeliveryFee:   rec.DeliveryFee,
		Total:         rec.Total,
		Notes:         rec.Notes,
		Message:       order.RenderMessage(rec),
		EstimatedTime: rec.EstimatedMinutes,
		Status:        models.StatusPending,
		PlacedAt:      rec.CreatedAt.UTC(),
	}
	if rec.Location != nil {
		lat, lng := rec.Location.Lat, rec.Location.Lng
		o.Lat, o.Lng = &lat, &lng
	}
	if rec.Tendered != nil {
		o.Tendered = decimal.NewNullDecimal(*rec.Tendered)
	}
	if rec.Change != nil {
		o.Change = decimal.NewNullDecimal(*rec.Change)
	}
	for i, it := range rec.Items {
		o.Items = append(o.Items, models.OrderItem{
			OrderID:        rec.ID,
			Position:       i,
			Kind:           string(it.Kind),
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Price:          it.Price,
			Customizations: it.Customizations,
		})
	}
	return o
}
