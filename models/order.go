package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is where an order is on the restaurant's board
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusOnTheWay       OrderStatus = "ON_THE_WAY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusPickedUp       OrderStatus = "PICKED_UP"
	StatusCancelled      OrderStatus = "CANCELLED"
)

type Order struct {
	ID            string               `json:"id" gorm:"primaryKey;size:36"`
	CustomerName  string               `json:"customer_name" gorm:"not null"`
	CustomerPhone string               `json:"customer_phone" gorm:"not null;index"`
	Address       string               `json:"address"`
	DeliveryType  string               `json:"delivery_type" gorm:"not null"`
	Zone          string               `json:"zone"`
	DistanceKm    float64              `json:"distance_km"`
	Lat           *float64             `json:"lat,omitempty"`
	Lng           *float64             `json:"lng,omitempty"`
	PaymentMethod string               `json:"payment_method" gorm:"not null"`
	Subtotal      decimal.Decimal      `json:"subtotal" gorm:"type:decimal(10,2)"`
	DeliveryFee   decimal.Decimal      `json:"delivery_fee" gorm:"type:decimal(10,2)"`
	Total         decimal.Decimal      `json:"total" gorm:"type:decimal(10,2);not null"`
	Tendered      decimal.NullDecimal  `json:"tendered" gorm:"type:decimal(10,2)"`
	Change        decimal.NullDecimal  `json:"change" gorm:"type:decimal(10,2)"`
	Notes         string               `json:"notes"`
	Message       string               `json:"message"`
	EstimatedTime int                  `json:"estimated_time_minutes"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'PENDING';index"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	PlacedAt      time.Time            `json:"placed_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderItem is a snapshot of one cart line at checkout
type OrderItem struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        string          `json:"order_id" gorm:"not null;size:36;index"`
	Position       int             `json:"position"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name" gorm:"not null"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2)"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"` // line total
	Customizations string          `json:"customizations"`
}

// OrderStatusHistory records every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"not null;size:36;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // admin user id, 0 for the storefront
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
