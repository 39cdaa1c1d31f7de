package routes

import (
	"srburger-api/handlers"
	"srburger-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/status", h.Status)
		public.GET("/menu", h.Menu)
		public.GET("/promotions/today", h.PromotionsToday)
		public.POST("/delivery/quote", h.DeliveryQuote)

		// Order lifecycle for docs/Postman
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Cart routes ────────────────────────────────────────────────
	carts := r.Group("/api/carts")
	{
		carts.GET("/:id", h.GetCart)
		carts.DELETE("/:id/lines/:index", h.RemoveLine)
	}
	// Anything that grows a cart or places an order needs the service on.
	ordering := r.Group("/api/carts")
	ordering.Use(h.ServiceOpen())
	{
		ordering.POST("", h.CreateCart)
		ordering.POST("/:id/items", h.AddItem)
		ordering.POST("/:id/combos", h.AddCombo)
		ordering.PUT("/:id/lines/:index", h.UpdateLine)
		ordering.POST("/:id/checkout", h.Checkout)
	}

	// ── Admin routes ───────────────────────────────────────────────
	r.POST("/api/admin/login", h.Login)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminRequired(h.JWTSecret))
	{
		admin.GET("/profile", h.GetProfile)

		// Storefront switchboard
		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings/service", h.SetService)
		admin.POST("/settings/reset", h.ResetSettings)
		admin.GET("/products", h.AdminProducts)
		admin.PUT("/products/:id/toggle", h.ToggleProduct)
		admin.PUT("/products/show-all", h.ShowAllProducts)
		admin.PUT("/products/hide-all", h.HideAllProducts)

		// Order board
		admin.GET("/orders", h.GetOrders)
		admin.GET("/orders/:id", h.GetOrder)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}
}
