package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OCTO_SHOP_ID", "12345")
	t.Setenv("OCTO_SECRET", "secret")
	t.Setenv("EMAIL_USER", "hotel@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Gateway.ShopID != 12345 {
		t.Errorf("ShopID = %d, want 12345", cfg.Gateway.ShopID)
	}
	if cfg.Gateway.URL != defaultGatewayURL {
		t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.Timeout != 15*time.Second {
		t.Errorf("Gateway.Timeout = %v", cfg.Gateway.Timeout)
	}
	if got := cfg.ExchangeRate.String(); got != "14000" {
		t.Errorf("ExchangeRate = %s, want 14000", got)
	}
	if cfg.Mail.AdminAddress != "hotel@example.com" {
		t.Errorf("AdminAddress = %q, want EMAIL_USER", cfg.Mail.AdminAddress)
	}
	if cfg.Port != "5002" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.NotifyTrigger != TriggerCallback {
		t.Errorf("NotifyTrigger = %q", cfg.NotifyTrigger)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BASE_URL", "https://hotel.test/")
	t.Setenv("ADMIN_EMAIL", "admin@hotel.test")
	t.Setenv("EUR_TO_UZS", "13500.5")
	t.Setenv("CORS_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("NOTIFY_TRIGGER", "SUCCESS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ReturnURL() != "https://hotel.test/success" {
		t.Errorf("ReturnURL() = %q", cfg.ReturnURL())
	}
	if cfg.NotifyURL() != "https://hotel.test/payment-callback" {
		t.Errorf("NotifyURL() = %q", cfg.NotifyURL())
	}
	if cfg.Mail.AdminAddress != "admin@hotel.test" {
		t.Errorf("AdminAddress = %q", cfg.Mail.AdminAddress)
	}
	if cfg.ExchangeRate.String() != "13500.5" {
		t.Errorf("ExchangeRate = %s", cfg.ExchangeRate)
	}
	if strings.Join(cfg.AllowedOrigins, "|") != "https://a.test|https://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.NotifyTrigger != TriggerSuccess {
		t.Errorf("NotifyTrigger = %q", cfg.NotifyTrigger)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("OCTO_SHOP_ID", "")
	t.Setenv("OCTO_SECRET", "")
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing configuration")
	}
	for _, key := range []string{"OCTO_SHOP_ID", "OCTO_SECRET", "EMAIL_USER", "EMAIL_PASS"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric shop id", "OCTO_SHOP_ID", "shop"},
		{"zero rate", "EUR_TO_UZS", "0"},
		{"bad rate", "EUR_TO_UZS", "abc"},
		{"bad timeout", "GATEWAY_TIMEOUT", "soon"},
		{"unknown trigger", "NOTIFY_TRIGGER", "webhook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.val)
			}
		})
	}
}
