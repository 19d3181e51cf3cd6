package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	PublicBaseURL      string
	CORSAllowedOrigins []string

	// FenanPay provider settings.
	FenanAPIKey        string
	FenanWebhookSecret string
	FenanCurrency      string
	FenanTestMode      bool
	FenanBaseURL       string
	FenanReturnURL     string
	FenanWebhookURL    string
	FenanHTTPTimeout   time.Duration
	FenanIntentExpire  time.Duration

	IdempotencyTTL    time.Duration
	WebhookRateMax    int
	WebhookRateWindow time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		PublicBaseURL:      strings.TrimRight(strings.TrimSpace(k.String("PUBLIC_BASE_URL")), "/"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		FenanAPIKey:        k.String("FENANPAY_API_KEY"),
		FenanWebhookSecret: k.String("FENANPAY_WEBHOOK_SECRET"),
		FenanCurrency:      valueOrDefault(strings.ToUpper(strings.TrimSpace(k.String("FENANPAY_CURRENCY"))), "ETB"),
		FenanTestMode:      parseBool(k.String("FENANPAY_TEST_MODE")),
		FenanBaseURL:       valueOrDefault(strings.TrimRight(strings.TrimSpace(k.String("FENANPAY_BASE_URL")), "/"), "https://api.fenanpay.com/api/v1"),
		FenanReturnURL:     strings.TrimSpace(k.String("FENANPAY_RETURN_URL")),
		FenanWebhookURL:    strings.TrimSpace(k.String("FENANPAY_WEBHOOK_URL")),
		FenanHTTPTimeout:   parseDuration(k.String("FENANPAY_HTTP_TIMEOUT"), "45s"),
		FenanIntentExpire:  parseDuration(k.String("FENANPAY_INTENT_EXPIRE"), "3600s"),

		IdempotencyTTL:    parseDuration(k.String("IDEMPOTENCY_TTL"), "2m"),
		WebhookRateMax:    int(k.Int64("WEBHOOK_RATE_MAX")),
		WebhookRateWindow: parseDuration(k.String("WEBHOOK_RATE_WINDOW"), "1m"),
	}

	if cfg.WebhookRateMax <= 0 {
		cfg.WebhookRateMax = 120
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.FenanAPIKey == "" {
		return nil, errors.New("FENANPAY_API_KEY is required")
	}
	if len(cfg.FenanCurrency) != 3 {
		return nil, fmt.Errorf("FENANPAY_CURRENCY must be a 3-letter code, got %q", cfg.FenanCurrency)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ReturnURL resolves the customer return URL for an order, preferring the
// configured override.
func (c *Config) ReturnURL(orderID int64) string {
	if c.FenanReturnURL != "" {
		return c.FenanReturnURL
	}
	return fmt.Sprintf("%s/checkout/order-received/%d", c.PublicBaseURL, orderID)
}

// WebhookURL resolves the callback URL handed to the provider, preferring the
// configured override.
func (c *Config) WebhookURL() string {
	if c.FenanWebhookURL != "" {
		return c.FenanWebhookURL
	}
	return c.PublicBaseURL + "/webhooks/fenanpay"
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
