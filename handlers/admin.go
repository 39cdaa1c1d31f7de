package handlers

import (
	"net/http"

	"srburger-api/catalog"
	"srburger-api/middleware"
	"srburger-api/settings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) settingsResponse(c *gin.Context, message string, snap settings.Snapshot) {
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"settings": snap,
		"synced":   h.Settings.Synced(),
	})
}

// GetSettings returns the current admin switchboard
func (h *Handler) GetSettings(c *gin.Context) {
	h.settingsResponse(c, "ok", h.Settings.Snapshot())
}

type ServiceRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetService turns ordering on or off for the whole storefront
func (h *Handler) SetService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := h.Settings.SetServiceActive(c.Request.Context(), middleware.GetEmail(c), *req.Active)
	msg := "Service paused"
	if snap.ServiceActive {
		msg = "Service active"
	}
	h.settingsResponse(c, msg, snap)
}

// ToggleProduct hides a visible product or shows a hidden one
func (h *Handler) ToggleProduct(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if _, err := h.Catalog.Product(id); err != nil {
		domainError(c, err)
		return
	}
	snap := h.Settings.ToggleProduct(c.Request.Context(), middleware.GetEmail(c), id)
	msg := "Product visible"
	if snap.Hidden(id) {
		msg = "Product hidden"
	}
	h.settingsResponse(c, msg, snap)
}

// ShowAllProducts clears every hidden product
func (h *Handler) ShowAllProducts(c *gin.Context) {
	snap := h.Settings.ShowAll(c.Request.Context(), middleware.GetEmail(c))
	h.settingsResponse(c, "All products visible", snap)
}

// HideAllProducts hides the whole menu, combos included
func (h *Handler) HideAllProducts(c *gin.Context) {
	snap := h.Settings.HideAll(c.Request.Context(), middleware.GetEmail(c), h.Catalog.ProductIDs())
	h.settingsResponse(c, "All products hidden", snap)
}

// ResetSettings restores service on with nothing hidden
func (h *Handler) ResetSettings(c *gin.Context) {
	snap := h.Settings.Reset(c.Request.Context(), middleware.GetEmail(c))
	h.settingsResponse(c, "Settings reset", snap)
}

type productView struct {
	catalog.MenuItem
	Hidden bool `json:"hidden"`
}

// AdminProducts lists every product with its visibility, for the admin panel
func (h *Handler) AdminProducts(c *gin.Context) {
	snap := h.Settings.Snapshot()
	products := []productView{}
	for _, id := range h.Catalog.ProductIDs() {
		p, err := h.Catalog.Product(id)
		if err != nil {
			continue
		}
		products = append(products, productView{MenuItem: p, Hidden: snap.Hidden(id)})
	}
	c.JSON(http.StatusOK, gin.H{
		"count":          len(products),
		"hidden_count":   len(snap.HiddenProductIDs),
		"service_active": snap.ServiceActive,
		"products":       products,
	})
}
