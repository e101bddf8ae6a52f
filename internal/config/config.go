// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string

	LogLevel string
	LogFile  string

	// DatabaseURL selects the Postgres store; empty runs on the in-memory store.
	DatabaseURL   string
	DBAutoMigrate bool

	StripeAPIKey        string
	StripeWebhookSecret string
	PaymentCurrency     string
	PublicBaseURL       string
	GatewayTimeout      time.Duration

	RedisURL         string
	WebhookDedupeTTL time.Duration

	SNSTopicARN string

	RateLimitRPS   float64
	RateLimitBurst int

	// CORSAllowedOrigins enables CORS for browser clients; empty leaves it off.
	CORSAllowedOrigins []string

	ShutdownTimeout time.Duration
}

// Load reads files (default ".env") when present, then the environment.
// Missing files are not an error; variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var errs []error
	cfg := &Config{
		ServiceName:         getEnv("SERVICE_NAME", "minishop-checkout"),
		Env:                 getEnv("ENV", "dev"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             getEnv("LOG_FILE", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DBAutoMigrate:       getBool("DB_AUTO_MIGRATE", true, &errs),
		StripeAPIKey:        getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PaymentCurrency:     strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		GatewayTimeout:      getDuration("GATEWAY_TIMEOUT", 10*time.Second, &errs),
		RedisURL:            getEnv("REDIS_URL", ""),
		WebhookDedupeTTL:    getDuration("WEBHOOK_DEDUPE_TTL", 72*time.Hour, &errs),
		SNSTopicARN:         getEnv("SNS_TOPIC_ARN", ""),
		RateLimitRPS:        getFloat("RATE_LIMIT_RPS", 20, &errs),
		RateLimitBurst:      getInt("RATE_LIMIT_BURST", 40, &errs),
		CORSAllowedOrigins:  getList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
	}

	if cfg.StripeAPIKey == "" {
		errs = append(errs, errors.New("STRIPE_API_KEY is required"))
	}
	if cfg.StripeWebhookSecret == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	if !strings.HasPrefix(cfg.PublicBaseURL, "http://") && !strings.HasPrefix(cfg.PublicBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL must be an http(s) URL, got %q", cfg.PublicBaseURL))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return fallback
	}
	return f
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return fallback
	}
	return b
}
