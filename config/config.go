package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	OndaPay    OndaPayConfig
	Cloudinary CloudinaryConfig
	Attempts   AttemptLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// AdminConfig seeds the single admin account used by the storefront panel.
type AdminConfig struct {
	Email    string
	Password string
}

type OndaPayConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	WebhookURL   string // fixed callback URL sent with every charge
	ChargeExpiry time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// AttemptLimitConfig caps purchase attempts per phone number.
type AttemptLimitConfig struct {
	HourlyMax   int
	MonthlyMax  int
	HourWindow  time.Duration
	MonthWindow time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "3000"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "cinestore:cinestore@tcp(localhost:3306)/cinestore?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: env("JWT_SECRET", "change-me-in-production"),
			AccessExpiry: 8 * time.Hour,
			Issuer:       "cinestore",
		},
		Admin: AdminConfig{
			Email:    env("ADMIN_USER", "admin@cinestore.local"),
			Password: env("ADMIN_PASS", "change-me"),
		},
		OndaPay: OndaPayConfig{
			BaseURL:      env("ONDAPAY_API_URL", "https://api.ondapay.app"),
			ClientID:     os.Getenv("ONDAPAY_CLIENT_ID"),
			ClientSecret: os.Getenv("ONDAPAY_CLIENT_SECRET"),
			WebhookURL:   env("ONDAPAY_WEBHOOK_URL", "https://cinestore.example.com/api/v1/webhooks/ondapay"),
			ChargeExpiry: 30 * time.Minute,
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Attempts: AttemptLimitConfig{
			HourlyMax:   3,
			MonthlyMax:  5,
			HourWindow:  time.Hour,
			MonthWindow: 30 * 24 * time.Hour,
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
