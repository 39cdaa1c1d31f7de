package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"srburger-api/cart"
	"srburger-api/catalog"
	"srburger-api/config"
	"srburger-api/delivery"
	"srburger-api/geocode"
	"srburger-api/handlers"
	"srburger-api/messaging"
	"srburger-api/pricing"
	"srburger-api/promotion"
	"srburger-api/routes"
	"srburger-api/settings"
	"srburger-api/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ config: ", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	db, err := config.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	if err := config.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("❌ seed admin: ", err)
	}

	// ───────────────────────── MENU ─────────────────────────
	menu, err := loadMenu(cfg.CatalogPath)
	if err != nil {
		log.Fatal("❌ menu: ", err)
	}
	clock := time.Now
	resolver := promotion.NewResolver(menu, cfg.Location)
	builder := cart.NewBuilder(menu, resolver, pricing.NewEngine(menu)).WithClock(clock)
	calc := delivery.NewCalculator(cfg.Restaurant)
	carts := cart.NewSessions(calc.BaseFee)

	// ───────────────────────── SETTINGS ─────────────────────────
	var settingsStore settings.Store = settings.NewGormStore(db, cfg.SettingsPollInterval)
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("srburger-api"))
		if err != nil {
			log.Printf("⚠️  NATS unavailable, settings will sync by polling: %v", err)
		} else {
			defer nc.Drain()
			settingsStore = settings.NewNATSStore(settingsStore, settings.NewNATSBus(nc), cfg.SettingsSubject)
			log.Printf("✅ Settings broadcast on %s", cfg.SettingsSubject)
		}
	}
	settingsSvc := settings.NewService(settingsStore)
	settingsSvc.Start(ctx)
	defer settingsSvc.Stop()

	// ───────────────────────── ORDERS ─────────────────────────
	orders := store.NewGormOrderStore(db)
	submitter := store.NewSubmitter(orders, store.NewFallbackStore(cfg.FallbackDir))
	go submitter.Run(ctx, cfg.FallbackReplayInterval)
	go expireCarts(ctx, carts, cfg.CartTTL)

	var geocoder geocode.Resolver
	if cfg.GeocoderURL != "" {
		geocoder = geocode.NewNominatimClient(cfg.GeocoderURL, "mx")
	}

	h := handlers.NewHandler(handlers.Deps{
		DB:        db,
		Catalog:   menu,
		Resolver:  resolver,
		Builder:   builder,
		Calc:      calc,
		Carts:     carts,
		Settings:  settingsSvc,
		Orders:    orders,
		Submitter: submitter,
		Geocoder:  geocoder,
		WhatsApp:  messaging.NewWhatsApp(cfg.WhatsAppNumber),
		JWTSecret: cfg.JWTSecret,
		Now:       clock,
	})

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍔 Bienvenido a SR & SRA Burger",
			"menu":    "/api/menu",
			"docs":    "/api/state-machine",
			"health":  "/health",
		})
	})
	routes.SetupRoutes(r, h)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  shutdown: %v", err)
	}
}

func loadMenu(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	log.Printf("Loading menu from %s", path)
	return catalog.LoadFile(path)
}

func expireCarts(ctx context.Context, carts *cart.Sessions, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 6)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := carts.Expire(ttl); n > 0 {
				log.Printf("🧹 %d idle carts dropped", n)
			}
		}
	}
}
