package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"srburger-api/delivery"
	"srburger-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port        string
	GinMode     string
	DBPath      string
	CORSOrigins []string // empty allows every origin

	JWTSecret     []byte
	AdminEmail    string
	AdminPassword string

	Restaurant     delivery.Point
	WhatsAppNumber string
	Location       *time.Location
	CatalogPath    string

	SettingsPollInterval time.Duration
	NATSURL              string
	SettingsSubject      string

	FallbackDir            string
	FallbackReplayInterval time.Duration
	GeocoderURL            string
	CartTTL                time.Duration
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	tz := getEnv("TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         os.Getenv("GIN_MODE"),
		DBPath:          getEnv("DB_PATH", "srburger.db"),
		JWTSecret:       []byte(getEnv("JWT_SECRET", "srburger_admin_secret_2024")),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@srburger.mx"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "5219221593688"),
		Location:        loc,
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		NATSURL:         os.Getenv("NATS_URL"),
		SettingsSubject: getEnv("SETTINGS_SUBJECT", "srburger.settings"),
		FallbackDir:     getEnv("FALLBACK_DIR", "fallback-orders"),
		GeocoderURL:     os.Getenv("GEOCODER_URL"),
	}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.Restaurant.Lat, err = getFloat("RESTAURANT_LAT", 17.9950); err != nil {
		return nil, err
	}
	if cfg.Restaurant.Lng, err = getFloat("RESTAURANT_LNG", -94.5370); err != nil {
		return nil, err
	}
	if cfg.SettingsPollInterval, err = getDuration("SETTINGS_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.FallbackReplayInterval, err = getDuration("FALLBACK_REPLAY_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

// InitDB opens the SQLite database and migrates every model.
func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.AdminUser{},
		&models.AdminSettings{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Println("✅ Database connected and migrated successfully")
	return db, nil
}

// SeedAdmin creates the admin account on first start. Without a password
// nothing is created.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if password == "" {
		return nil
	}
	var n int64
	if err := db.Model(&models.AdminUser{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.Create(&models.AdminUser{Name: "Administrador", Email: email, PasswordHash: string(hash)}).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("👤 Admin account %s created", email)
	return nil
}
