package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port         string
	PostgresDSN  string
	RedisAddr    string
	RedisDB      int
	JWTSecret    string
	JWTTTL       time.Duration
	MailBaseURL  string
	MailAPIKey   string
	MailFrom     string
	Environment  string
	OTLPEndpoint string
	OTLPInsecure bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:      time.Hour,
		MailBaseURL: envDefault("MAIL_API_BASE_URL", "https://api.sendgrid.com"),
		MailAPIKey:  strings.TrimSpace(os.Getenv("MAIL_API_KEY")),
		MailFrom:    envDefault("MAIL_FROM", "no-reply@shop.local"),
		Environment: envDefault("ENVIRONMENT", "local"),
		// The collector endpoint is optional; insecure transport is the
		// default because local collectors rarely terminate TLS.
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if raw := strings.TrimSpace(os.Getenv("JWT_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("JWT_TTL_MINUTES must be a positive integer")
		}
		cfg.JWTTTL = time.Duration(minutes) * time.Minute
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer")
		}
		cfg.RedisDB = db
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
