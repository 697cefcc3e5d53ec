package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	Metrics struct {
		Addr string
	}

	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}

	// Feed holds the knobs of the feed assembler.
	Feed struct {
		TargetCount     int
		PageSize        int
		DefaultRadiusKm float64
		CardTTL         time.Duration
	}

	Geocoder struct {
		BaseURL       string
		Token         string
		RatePerSecond float64
		CacheTTL      time.Duration
		Timeout       time.Duration
	}

	Mail struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
		ReportTo string
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "eventswipe")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "eventswipe")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// gRPC + metrics
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")
	cfg.Metrics.Addr = getEnvDefault("METRICS_ADDR", ":9090")

	// Auth
	cfg.Auth.JWTSecret = getEnvDefault("JWT_SECRET", "dev-secret-change-me")
	cfg.Auth.TokenTTL = getEnvDuration("JWT_TTL", 24*time.Hour)

	// Feed
	cfg.Feed.TargetCount = getEnvInt("FEED_TARGET_COUNT", 15)
	cfg.Feed.PageSize = getEnvInt("FEED_PAGE_SIZE", 10)
	cfg.Feed.DefaultRadiusKm = getEnvFloat("FEED_DEFAULT_RADIUS_KM", 10)
	cfg.Feed.CardTTL = getEnvDuration("FEED_CARD_TTL", 10*time.Minute)

	// Geocoder (LocationIQ)
	cfg.Geocoder.BaseURL = getEnvDefault("GEOCODER_BASE_URL", "https://us1.locationiq.com/v1")
	cfg.Geocoder.Token = getEnvDefault("LOCATIONIQ_TOKEN", "")
	cfg.Geocoder.RatePerSecond = getEnvFloat("GEOCODER_RPS", 2)
	cfg.Geocoder.CacheTTL = getEnvDuration("GEOCODER_CACHE_TTL", 24*time.Hour)
	cfg.Geocoder.Timeout = getEnvDuration("GEOCODER_TIMEOUT", 5*time.Second)

	// Mail
	cfg.Mail.Host = getEnvDefault("SMTP_HOST", "localhost")
	cfg.Mail.Port = getEnvInt("SMTP_PORT", 587)
	cfg.Mail.User = getEnvDefault("SMTP_USER", "")
	cfg.Mail.Password = getEnvDefault("SMTP_PASSWORD", "")
	cfg.Mail.From = getEnvDefault("MAIL_FROM", "noreply@eventswipe.local")
	cfg.Mail.ReportTo = getEnvDefault("MAIL_REPORT_TO", "moderation@eventswipe.local")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if n, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return n
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(getEnvDefault(k, ""), 64); err == nil {
		return f
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnvDefault(k, "")); err == nil {
		return d
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
