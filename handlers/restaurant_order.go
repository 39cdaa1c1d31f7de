package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"srburger-api/middleware"
	"srburger-api/models"
	"srburger-api/order"
	"srburger-api/statemachine"
	"srburger-api/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetOrders returns the order board, newest first
func (h *Handler) GetOrders(c *gin.Context) {
	filter := store.ListFilter{Status: models.OrderStatus(c.Query("status"))}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = n
	}

	orders, err := h.Orders.List(c.Request.Context(), filter)
	if err != nil {
		domainError(c, err)
		return
	}

	summary := map[string]int{}
	revenue := decimal.Zero
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered || o.Status == models.StatusPickedUp {
			revenue = revenue.Add(o.Total)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": revenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// GetOrder returns one order with its lines and status history
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	flow := order.FulfillmentType(o.DeliveryType)
	c.JSON(http.StatusOK, gin.H{
		"order":             o,
		"valid_next_states": statemachine.ValidTransitionsFrom(o.Status, flow),
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus moves an order along its delivery or pickup flow
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	prev, err := h.Orders.Get(ctx, id)
	if err != nil {
		domainError(c, err)
		return
	}

	updated, err := h.Orders.UpdateStatus(ctx, id, req.Status, middleware.GetAdminID(c), req.Note)
	if errors.Is(err, store.ErrInvalidTransition) {
		flow := order.FulfillmentType(prev.DeliveryType)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    prev.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(prev.Status, flow),
		})
		return
	}
	if err != nil {
		domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        updated.ID,
		"previous_status": string(prev.Status),
		"current_status":  string(updated.Status),
	})
}
