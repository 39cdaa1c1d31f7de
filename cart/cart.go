package cart

import (
	"errors"
	"fmt"

	"srburger-api/delivery"

	"github.com/shopspring/decimal"
)

var ErrLineIndex = errors.New("cart: line index out of range")

// Cart is an ordered list of lines. Insertion order is display and message
// order. A Cart is not safe for concurrent use; Sessions serializes access.
type Cart struct {
	lines   []Line
	baseFee decimal.Decimal
}

// New returns an empty cart. baseFee is charged for delivery while no
// deliverable address has been quoted.
func New(baseFee decimal.Decimal) *Cart {
	return &Cart{baseFee: baseFee}
}

// Add appends a line. Identical lines are never merged.
func (c *Cart) Add(l Line) {
	if l.Quantity() < 1 {
		l.setQuantity(1)
	}
	c.lines = append(c.lines, l)
}

// SetQuantity replaces the quantity of line i; q <= 0 removes it.
func (c *Cart) SetQuantity(i, q int) error {
	if err := c.check(i); err != nil {
		return err
	}
	if q <= 0 {
		return c.Remove(i)
	}
	c.lines[i].setQuantity(q)
	return nil
}

func (c *Cart) Remove(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Cart) check(i int) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%w: %d (cart has %d lines)", ErrLineIndex, i, len(c.lines))
	}
	return nil
}

// Lines returns a copy of the line slice; the lines themselves are shared.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = nil }

// Take empties the cart and returns the lines it held.
func (c *Cart) Take() []Line {
	lines := c.lines
	c.lines = nil
	return lines
}

// Restore puts taken lines back ahead of any added since.
func (c *Cart) Restore(lines []Line) {
	c.lines = append(append([]Line(nil), lines...), c.lines...)
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// DeliveryFee is the fee charged when delivery is selected. Without a
// deliverable quote it falls back to the base fee; checkout rejects that case.
func (c *Cart) DeliveryFee(deliverySelected bool, quote *delivery.Quote) decimal.Decimal {
	if !deliverySelected {
		return decimal.Zero
	}
	if quote != nil && quote.Deliverable() {
		return quote.Fee
	}
	return c.baseFee
}

func (c *Cart) Total(deliverySelected bool, quote *delivery.Quote) decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee(deliverySelected, quote))
}
