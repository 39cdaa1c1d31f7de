package handlers

import (
	"errors"
	"log"
	"net/http"

	"srburger-api/cart"
	"srburger-api/delivery"
	"srburger-api/order"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type lineView struct {
	Index     int             `json:"index"`
	Kind      cart.Kind       `json:"kind"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Details   []string        `json:"details"`
}

func cartView(id string, c *cart.Cart) gin.H {
	lines := make([]lineView, 0, c.Len())
	for i, l := range c.Lines() {
		lines = append(lines, lineView{
			Index:     i,
			Kind:      l.Kind(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice(),
			Total:     l.Total(),
			Details:   l.Details(),
		})
	}
	return gin.H{
		"cart_id":  id,
		"items":    lines,
		"count":    len(lines),
		"subtotal": c.Subtotal(),
	}
}

// CreateCart opens an empty cart for a storefront visitor
func (h *Handler) CreateCart(c *gin.Context) {
	id := h.Carts.Create()
	var view gin.H
	err := h.Carts.With(id, func(ct *cart.Cart) error {
		view = cartView(id, ct)
		return nil
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetCart returns the cart lines and subtotal
func (h *Handler) GetCart(c *gin.Context) {
	id := c.Param("id")
	var view gin.H
	err := h.Carts.With(id, func(ct *cart.Cart) error {
		view = cartView(id, ct)
		return nil
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddItem prices a single product, with or without customization, and adds it
func (h *Handler) AddItem(c *gin.Context) {
	var req cart.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	line, err := h.Builder.Item(req, h.Settings.Snapshot())
	if err != nil {
		domainError(c, err)
		return
	}
	h.addLine(c, line)
}

// AddCombo prices a combo with its slot selections and adds it
func (h *Handler) AddCombo(c *gin.Context) {
	var req cart.ComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	line, err := h.Builder.Combo(req, h.Settings.Snapshot())
	if err != nil {
		domainError(c, err)
		return
	}
	h.addLine(c, line)
}

func (h *Handler) addLine(c *gin.Context, line cart.Line) {
	id := c.Param("id")
	var view gin.H
	err := h.Carts.With(id, func(ct *cart.Cart) error {
		ct.Add(line)
		view = cartView(id, ct)
		return nil
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// UpdateLine changes a line's quantity; zero removes it
func (h *Handler) UpdateLine(c *gin.Context) {
	idx, ok := paramInt(c, "index")
	if !ok {
		return
	}
	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(ct *cart.Cart) error { return ct.SetQuantity(idx, req.Quantity) })
}

// RemoveLine drops a line from the cart
func (h *Handler) RemoveLine(c *gin.Context) {
	idx, ok := paramInt(c, "index")
	if !ok {
		return
	}
	h.mutate(c, func(ct *cart.Cart) error { return ct.Remove(idx) })
}

func (h *Handler) mutate(c *gin.Context, fn func(*cart.Cart) error) {
	id := c.Param("id")
	var view gin.H
	err := h.Carts.With(id, func(ct *cart.Cart) error {
		if err := fn(ct); err != nil {
			return err
		}
		view = cartView(id, ct)
		return nil
	})
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type CheckoutRequest struct {
	Name          string                `json:"name"`
	Phone         string                `json:"phone"`
	DeliveryType  order.FulfillmentType `json:"delivery_type" binding:"required"`
	Address       string                `json:"address"`
	Location      *delivery.Point       `json:"location"`
	PaymentMethod order.PaymentMethod   `json:"payment_method"`
	Tendered      *decimal.Decimal      `json:"tendered"`
}

// Checkout turns the cart into an order, stores it and returns the
// WhatsApp hand-off for the restaurant.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	del := order.Delivery{Type: req.DeliveryType, Address: req.Address}
	if req.DeliveryType == order.FulfillmentDelivery {
		loc, formatted, _, err := h.locate(c.Request.Context(), req.Location, req.Address)
		switch {
		case err == nil:
			quote := h.Calc.QuoteTo(*loc)
			del.Location = loc
			del.Quote = &quote
			if formatted != "" {
				del.Address = formatted
			}
		case errors.Is(err, errNoLocation):
			// validation reports the missing address
		default:
			log.Printf("⚠️  address %q not verified: %v", req.Address, err)
		}
	}

	id := c.Param("id")
	var (
		rec   order.Record
		taken []cart.Line
	)
	// Compose and detach under one lock so lines added meanwhile are never
	// dropped and a second checkout finds the cart empty.
	err := h.Carts.With(id, func(ct *cart.Cart) error {
		rec = order.Compose(ct,
			order.Customer{Name: req.Name, Phone: req.Phone},
			del,
			order.Payment{Method: req.PaymentMethod, Tendered: req.Tendered},
			h.Now(),
		)
		if err := order.Validate(rec); err != nil {
			return err
		}
		taken = ct.Take()
		return nil
	})
	if err != nil {
		domainError(c, err)
		return
	}

	receipt, err := h.Submitter.Submit(c.Request.Context(), rec)
	if err != nil {
		log.Printf("order lost: %v", err)
		if rerr := h.Carts.With(id, func(ct *cart.Cart) error {
			ct.Restore(taken)
			return nil
		}); rerr != nil {
			log.Printf("⚠️  cart %s lines not restored: %v", id, rerr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No pudimos registrar tu pedido, intenta de nuevo"})
		return
	}
	rec.ID = receipt.ID

	msg := order.RenderMessage(rec)
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"order_id":       receipt.ID,
		"stored_offline": receipt.Fallback,
		"order":          rec,
		"whatsapp_text":  msg,
		"whatsapp_link":  h.WhatsApp.Link(msg),
	})
}
