package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"srburger-api/cart"
	"srburger-api/catalog"
	"srburger-api/delivery"
	"srburger-api/geocode"
	"srburger-api/messaging"
	"srburger-api/order"
	"srburger-api/pricing"
	"srburger-api/promotion"
	"srburger-api/settings"
	"srburger-api/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	DB        *gorm.DB
	Catalog   *catalog.Catalog
	Resolver  *promotion.Resolver
	Builder   *cart.Builder
	Calc      *delivery.Calculator
	Carts     *cart.Sessions
	Settings  *settings.Service
	Orders    *store.GormOrderStore
	Submitter *store.Submitter
	Geocoder  geocode.Resolver // nil disables address lookups
	WhatsApp  *messaging.WhatsApp
	JWTSecret []byte
	Now       func() time.Time
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{Deps: d}
}

// ServiceOpen blocks ordering while the admin has switched the service off.
func (h *Handler) ServiceOpen() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Settings.Snapshot().ServiceActive {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Por el momento no estamos recibiendo pedidos. ¡Vuelve pronto!",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// domainError maps domain failures to a status and client message.
func domainError(c *gin.Context, err error) {
	var verrs order.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Revisa los datos del pedido", "fields": verrs.Fields()})
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, cart.ErrNoCart), errors.Is(err, store.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrLineIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrHidden),
		errors.Is(err, pricing.ErrToppingNotAllowed),
		errors.Is(err, pricing.ErrInvalidExtra),
		errors.Is(err, pricing.ErrInvalidSide),
		errors.Is(err, pricing.ErrNotCustomizable),
		errors.Is(err, pricing.ErrSlotMismatch),
		errors.Is(err, pricing.ErrIneligible),
		errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func paramInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}
