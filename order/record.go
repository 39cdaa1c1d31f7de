package order

import (
	"strings"
	"time"

	"srburger-api/cart"
	"srburger-api/delivery"

	"github.com/shopspring/decimal"
)

type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

func (f FulfillmentType) Label() string {
	if f == FulfillmentDelivery {
		return "A domicilio"
	}
	return "Recoger en local"
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentTransfer PaymentMethod = "Transferencia"
)

const (
	baseMinutes    = 15
	minutesPerLine = 5
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Delivery describes how the order leaves the restaurant. Quote is nil when
// the address could not be placed on the map.
type Delivery struct {
	Type     FulfillmentType `json:"type"`
	Address  string          `json:"address,omitempty"`
	Location *delivery.Point `json:"location,omitempty"`
	Quote    *delivery.Quote `json:"quote,omitempty"`
}

// Payment is the chosen method. Tendered is the cash the customer will hand over.
type Payment struct {
	Method   PaymentMethod    `json:"method"`
	Tendered *decimal.Decimal `json:"tendered,omitempty"`
}

// Item is one flattened cart line. Price is the line total.
type Item struct {
	Kind           cart.Kind       `json:"kind"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Price          decimal.Decimal `json:"price"`
	Customizations string          `json:"customizations"`
	Details        []string        `json:"details,omitempty"`
}

// Record is the order as stored and as sent to the restaurant.
type Record struct {
	ID               string           `json:"id,omitempty"`
	Customer         Customer         `json:"customer"`
	Items            []Item           `json:"items"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	DeliveryFee      decimal.Decimal  `json:"delivery_fee"`
	Total            decimal.Decimal  `json:"total"`
	DeliveryType     FulfillmentType  `json:"delivery_type"`
	Zone             delivery.Zone    `json:"zone,omitempty"`
	ZoneLabel        string           `json:"zone_label,omitempty"`
	DistanceKm       float64          `json:"distance_km,omitempty"`
	Location         *delivery.Point  `json:"location,omitempty"`
	PaymentMethod    PaymentMethod    `json:"payment_method"`
	Tendered         *decimal.Decimal `json:"tendered,omitempty"`
	Change           *decimal.Decimal `json:"change,omitempty"`
	Notes            string           `json:"notes"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	CreatedAt        time.Time        `json:"created_at"`
}

// LineTotal re-sums the flattened lines and the delivery fee.
func (r Record) LineTotal() decimal.Decimal {
	sum := r.DeliveryFee
	for _, it := range r.Items {
		sum = sum.Add(it.Price)
	}
	return sum
}

// Compose flattens the cart and checkout details into a Record. It never
// fails; Validate decides whether the record can be submitted.
func Compose(c *cart.Cart, cust Customer, del Delivery, pay Payment, at time.Time) Record {
	deliverySelected := del.Type == FulfillmentDelivery
	r := Record{
		Customer:         cust,
		Subtotal:         c.Subtotal(),
		DeliveryFee:      c.DeliveryFee(deliverySelected, del.Quote),
		Total:            c.Total(deliverySelected, del.Quote),
		DeliveryType:     del.Type,
		PaymentMethod:    pay.Method,
		EstimatedMinutes: baseMinutes + minutesPerLine*c.Len(),
		CreatedAt:        at,
	}
	if r.DeliveryType == "" {
		r.DeliveryType = FulfillmentPickup
	}
	if deliverySelected {
		if del.Address != "" {
			r.Customer.Address = del.Address
		}
		r.Location = del.Location
		if del.Quote != nil {
			r.Zone = del.Quote.Zone
			r.ZoneLabel = del.Quote.Label
			r.DistanceKm = del.Quote.DistanceKm
		}
	} else {
		r.Customer.Address = ""
	}

	for _, l := range c.Lines() {
		details := l.Details()
		r.Items = append(r.Items, Item{
			Kind:           l.Kind(),
			Name:           l.Name(),
			Quantity:       l.Quantity(),
			UnitPrice:      l.UnitPrice(),
			Price:          l.Total(),
			Customizations: strings.Join(details, ", "),
			Details:        details,
		})
	}

	if pay.Method == PaymentCash && pay.Tendered != nil {
		tendered := *pay.Tendered
		change := tendered.Sub(r.Total)
		r.Tendered = &tendered
		r.Change = &change
		r.Notes = "Pago: " + money(tendered) + " | Cambio: " + money(change)
	} else if pay.Method != PaymentCash {
		r.Notes = "Pago: " + string(pay.Method)
	}
	return r
}
