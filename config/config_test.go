package config

import (
	"path/filepath"
	"testing"
	"time"

	"srburger-api/models"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "RESTAURANT_LAT", "SETTINGS_POLL_INTERVAL", "TIMEZONE", "NATS_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.Restaurant.Lat != 17.9950 || cfg.Restaurant.Lng != -94.5370 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SettingsPollInterval != 5*time.Second || cfg.Location.String() != "America/Mexico_City" {
		t.Errorf("poll %v, tz %v", cfg.SettingsPollInterval, cfg.Location)
	}
	if cfg.WhatsAppNumber != "5219221593688" || cfg.SettingsSubject != "srburger.settings" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("RESTAURANT_LAT", "18.5")
	t.Setenv("SETTINGS_POLL_INTERVAL", "250ms")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.Restaurant.Lat != 18.5 || cfg.SettingsPollInterval != 250*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("CORS_ORIGINS", "https://srburger.mx, http://localhost:5173,")
	if cfg, err = Load(); err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:5173" {
		t.Errorf("origins = %q", cfg.CORSOrigins)
	}

	t.Setenv("CART_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Error("zero duration accepted")
	}
	t.Setenv("CART_TTL", "")

	t.Setenv("RESTAURANT_LNG", "west")
	if _, err := Load(); err == nil {
		t.Error("invalid float accepted")
	}
}

func TestSeedAdmin(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(db, "admin@srburger.mx", "secret123"); err != nil {
		t.Fatal(err)
	}
	if err := SeedAdmin(db, "admin@srburger.mx", "other"); err != nil {
		t.Fatal(err)
	}
	var users []models.AdminUser
	db.Find(&users)
	if len(users) != 1 {
		t.Fatalf("users = %d", len(users))
	}
	if bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("secret123")) != nil {
		t.Error("password hash does not match")
	}
}
