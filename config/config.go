package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Notification triggers
const (
	TriggerCallback = "callback"
	TriggerSuccess  = "success"
)

const defaultGatewayURL = "https://secure.octo.uz/prepare_payment"

// Config holds application configuration
type Config struct {
	ServiceName    string
	OTELEndpoint   string
	OTELEnabled    bool
	Port           string
	BaseURL        string
	AllowedOrigins []string
	ExchangeRate   decimal.Decimal
	NotifyTrigger  string
	Gateway        GatewayConfig
	Mail           MailConfig
}

// GatewayConfig describes the payment gateway account
type GatewayConfig struct {
	URL     string
	ShopID  int64
	Secret  string
	Timeout time.Duration
}

// MailConfig describes the SMTP account used for notifications
type MailConfig struct {
	Host         string
	Port         string
	TLSMode      string
	User         string
	Password     string
	FromName     string
	AdminAddress string
	Timeout      time.Duration
}

// Load loads configuration from the environment, reading a .env file first if present.
func Load() (*Config, error) {
	// a missing .env is fine, variables may come from the process environment
	_ = godotenv.Load()

	var errs []error
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is not set", key))
		}
		return v
	}

	cfg := &Config{
		ServiceName:    "hotel-payments",
		OTELEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Port:           getEnv("PORT", "5002"),
		BaseURL:        strings.TrimRight(getEnv("BASE_URL", "https://khamsahotel.uz"), "/"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "https://khamsahotel.uz,https://www.khamsahotel.uz")),
		NotifyTrigger:  strings.ToLower(getEnv("NOTIFY_TRIGGER", TriggerCallback)),
		Gateway: GatewayConfig{
			URL:    getEnv("OCTO_API_URL", defaultGatewayURL),
			Secret: required("OCTO_SECRET"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "465"),
			TLSMode:  strings.ToLower(getEnv("SMTP_TLS_MODE", "tls")),
			User:     required("EMAIL_USER"),
			Password: required("EMAIL_PASS"),
			FromName: getEnv("EMAIL_FROM_NAME", "Khamsa Hotel"),
		},
	}
	cfg.Mail.AdminAddress = getEnv("ADMIN_EMAIL", cfg.Mail.User)

	if shopID := required("OCTO_SHOP_ID"); shopID != "" {
		id, err := strconv.ParseInt(shopID, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("OCTO_SHOP_ID must be an integer: %w", err))
		}
		cfg.Gateway.ShopID = id
	}

	rate, err := decimal.NewFromString(getEnv("EUR_TO_UZS", "14000"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("EUR_TO_UZS: %w", err))
	case !rate.IsPositive():
		errs = append(errs, errors.New("EUR_TO_UZS must be positive"))
	}
	cfg.ExchangeRate = rate

	if cfg.Gateway.Timeout, err = time.ParseDuration(getEnv("GATEWAY_TIMEOUT", "15s")); err != nil {
		errs = append(errs, fmt.Errorf("GATEWAY_TIMEOUT: %w", err))
	}
	if cfg.Mail.Timeout, err = time.ParseDuration(getEnv("MAIL_TIMEOUT", "20s")); err != nil {
		errs = append(errs, fmt.Errorf("MAIL_TIMEOUT: %w", err))
	}
	if cfg.OTELEnabled, err = strconv.ParseBool(getEnv("OTEL_ENABLED", "true")); err != nil {
		errs = append(errs, fmt.Errorf("OTEL_ENABLED: %w", err))
	}

	if cfg.NotifyTrigger != TriggerCallback && cfg.NotifyTrigger != TriggerSuccess {
		errs = append(errs, fmt.Errorf("NOTIFY_TRIGGER must be %q or %q", TriggerCallback, TriggerSuccess))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// ReturnURL is where the gateway redirects the payer's browser.
func (c *Config) ReturnURL() string {
	return c.BaseURL + "/success"
}

// NotifyURL is where the gateway posts its server-to-server callback.
func (c *Config) NotifyURL() string {
	return c.BaseURL + "/payment-callback"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
