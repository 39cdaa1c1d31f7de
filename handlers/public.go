package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"srburger-api/catalog"
	"srburger-api/delivery"
	"srburger-api/geocode"
	"srburger-api/promotion"
	"srburger-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "SR & SRA Burger API",
		"version": "1.0.0",
	})
}

// Status tells the storefront whether it may take orders
func (h *Handler) Status(c *gin.Context) {
	snap := h.Settings.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"service_active": snap.ServiceActive,
		"synced":         h.Settings.Synced(),
		"last_updated":   snap.LastUpdated,
	})
}

type comboView struct {
	catalog.Combo
	ReferencePrice decimal.Decimal `json:"reference_price"`
	Savings        decimal.Decimal `json:"savings"`
}

// Menu returns the visible menu priced for today
func (h *Handler) Menu(c *gin.Context) {
	snap := h.Settings.Snapshot()
	day := h.Resolver.Weekday(h.Now())

	sections := gin.H{}
	for _, cat := range catalog.Categories {
		if cat == catalog.CategoryCombo {
			continue
		}
		if q := c.Query("category"); q != "" && q != string(cat) {
			continue
		}
		items := []promotion.Promoted{}
		for _, item := range h.Catalog.Items(cat) {
			if snap.Hidden(item.ID) {
				continue
			}
			items = append(items, h.Resolver.Resolve(item, day))
		}
		sections[string(cat)] = items
	}

	combos := []comboView{}
	if q := c.Query("category"); q == "" || q == string(catalog.CategoryCombo) {
		for _, combo := range h.Catalog.Combos() {
			if snap.Hidden(combo.ID) {
				continue
			}
			combos = append(combos, comboView{
				Combo:          combo,
				ReferencePrice: h.Catalog.ReferencePrice(combo),
				Savings:        h.Catalog.Savings(combo),
			})
		}
		sections[string(catalog.CategoryCombo)] = combos
	}

	resp := gin.H{
		"service_active": snap.ServiceActive,
		"menu":           sections,
		"toppings":       h.Catalog.Toppings(),
		"sides":          h.Catalog.Sides(),
	}
	if promo, ok := h.Resolver.Active(day); ok {
		resp["promotion"] = promo
	}
	c.JSON(http.StatusOK, resp)
}

// PromotionsToday returns today's promotion, if any, and the weekly schedule
func (h *Handler) PromotionsToday(c *gin.Context) {
	day := h.Resolver.Weekday(h.Now())
	week := []catalog.Promotion{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if p, ok := h.Resolver.Active(d); ok {
			week = append(week, p)
		}
	}
	resp := gin.H{"weekday": day, "active": false, "week": week}
	if p, ok := h.Resolver.Active(day); ok {
		resp["active"] = true
		resp["promotion"] = p
	}
	c.JSON(http.StatusOK, resp)
}

type QuoteRequest struct {
	Location *delivery.Point `json:"location"`
	Address  string          `json:"address"`
}

// DeliveryQuote prices delivery to a coordinate or a free-text address
func (h *Handler) DeliveryQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc, formatted, status, err := h.locate(c.Request.Context(), req.Location, req.Address)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	quote := h.Calc.QuoteTo(*loc)
	c.JSON(http.StatusOK, gin.H{
		"quote":             quote,
		"deliverable":       quote.Deliverable(),
		"formatted_address": formatted,
		"location":          loc,
	})
}

var errNoLocation = errors.New("location or address required")

// locate returns the coordinate for a request, geocoding the address when no
// coordinate was sent.
func (h *Handler) locate(ctx context.Context, loc *delivery.Point, address string) (*delivery.Point, string, int, error) {
	if loc != nil {
		return loc, address, 0, nil
	}
	if address == "" {
		return nil, "", http.StatusBadRequest, errNoLocation
	}
	if h.Geocoder == nil {
		return nil, "", http.StatusServiceUnavailable, errors.New("address lookup is not available, send coordinates")
	}
	place, err := h.Geocoder.Resolve(ctx, address)
	if errors.Is(err, geocode.ErrNoMatch) {
		return nil, "", http.StatusUnprocessableEntity, errors.New("no pudimos encontrar esa dirección")
	}
	if err != nil {
		return nil, "", http.StatusBadGateway, err
	}
	return &place.Location, place.FormattedAddress, 0, nil
}

// GetStateMachineInfo returns the order status flows for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []string{"DELIVERED", "PICKED_UP", "CANCELLED"},
		"description":     "Order lifecycle for delivery and pickup orders",
	})
}
