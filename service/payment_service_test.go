package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/Wamwod10/hotel-backend/apperr"
	"github.com/Wamwod10/hotel-backend/config"
	"github.com/Wamwod10/hotel-backend/models"
)

var fixedNow = time.Date(2026, 5, 14, 9, 30, 15, 250_000_000, time.UTC)

type gatewayStub struct {
	server   *httptest.Server
	calls    atomic.Int32
	received models.GatewayPayload
}

// newGatewayStub serves body with the given status and records the decoded request.
func newGatewayStub(t *testing.T, status int, body string) *gatewayStub {
	t.Helper()
	stub := &gatewayStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &stub.received); err != nil {
			t.Errorf("gateway received invalid JSON: %v", err)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestConfig(gatewayURL string) *config.Config {
	return &config.Config{
		BaseURL:      "https://hotel.test",
		ExchangeRate: decimal.NewFromInt(14000),
		Gateway: config.GatewayConfig{
			URL:     gatewayURL,
			ShopID:  777,
			Secret:  "s3cr3t",
			Timeout: 2 * time.Second,
		},
	}
}

func newTestPaymentService(gatewayURL string) *PaymentService {
	svc := NewPaymentService(otel.Tracer("test"), newTestConfig(gatewayURL))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreatePaymentSuccess(t *testing.T) {
	stub := newGatewayStub(t, http.StatusOK, `{"error":0,"data":{"octo_pay_url":"https://pay.example/x"}}`)
	svc := newTestPaymentService(stub.server.URL)

	resp, err := svc.CreatePayment(context.Background(), &models.PaymentRequest{
		Amount:      10,
		Description: "Room",
		Email:       "a@b.com",
	})
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if resp.PaymentURL != "https://pay.example/x" {
		t.Errorf("PaymentURL = %q", resp.PaymentURL)
	}

	got := stub.received
	if got.TotalSum != 140000 {
		t.Errorf("total_sum = %d, want 140000", got.TotalSum)
	}
	if got.Description != "Room (10 EUR)" {
		t.Errorf("description = %q", got.Description)
	}
	if got.ShopID != 777 || got.Secret != "s3cr3t" {
		t.Errorf("credentials = %d/%q", got.ShopID, got.Secret)
	}
	if got.TransactionID != "1778751015250" {
		t.Errorf("shop_transaction_id = %q", got.TransactionID)
	}
	if got.InitTime != "2026-05-14 09:30:15" {
		t.Errorf("init_time = %q", got.InitTime)
	}
	if !got.AutoCapture || got.Test {
		t.Errorf("auto_capture/test = %v/%v", got.AutoCapture, got.Test)
	}
	if got.Currency != "UZS" || got.Language != "uz" {
		t.Errorf("currency/language = %q/%q", got.Currency, got.Language)
	}
	if got.ReturnURL != "https://hotel.test/success" || got.NotifyURL != "https://hotel.test/payment-callback" {
		t.Errorf("urls = %q, %q", got.ReturnURL, got.NotifyURL)
	}
	if got.CustomData.Email != "a@b.com" {
		t.Errorf("custom_data.email = %q", got.CustomData.Email)
	}
}

func TestCreatePaymentDefaultDescription(t *testing.T) {
	stub := newGatewayStub(t, http.StatusOK, `{"error":0,"data":{"octo_pay_url":"https://pay.example/y"}}`)
	svc := newTestPaymentService(stub.server.URL)

	_, err := svc.CreatePayment(context.Background(), &models.PaymentRequest{Amount: 12.5, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if want := DefaultDescription + " (12.5 EUR)"; stub.received.Description != want {
		t.Errorf("description = %q, want %q", stub.received.Description, want)
	}
	if stub.received.TotalSum != 175000 {
		t.Errorf("total_sum = %d, want 175000", stub.received.TotalSum)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.PaymentRequest
	}{
		{"zero amount", &models.PaymentRequest{Amount: 0, Email: "a@b.com"}},
		{"negative amount", &models.PaymentRequest{Amount: -5, Email: "a@b.com"}},
		{"missing email", &models.PaymentRequest{Amount: 10}},
		{"nil request", nil},
		{"total_sum overflows", &models.PaymentRequest{Amount: 1e15, Email: "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newGatewayStub(t, http.StatusOK, `{}`)
			svc := newTestPaymentService(stub.server.URL)

			_, err := svc.CreatePayment(context.Background(), tt.req)
			if !apperr.Is(err, apperr.Validation) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if n := stub.calls.Load(); n != 0 {
				t.Errorf("gateway called %d times, want 0", n)
			}
		})
	}
}

func TestCreatePaymentGatewayFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"business error", http.StatusOK, `{"error":1,"errMessage":"insufficient"}`, apperr.GatewayBusiness, "insufficient"},
		{"business error without message", http.StatusOK, `{"error":2}`, apperr.GatewayBusiness, "payment gateway error"},
		{"success without url", http.StatusOK, `{"error":0,"data":{}}`, apperr.GatewayBusiness, "payment gateway error"},
		{"missing error field", http.StatusOK, `{"data":{"octo_pay_url":"https://pay.example/x"}}`, apperr.GatewayBusiness, "payment gateway error"},
		{"non-json body", http.StatusBadGateway, `<html>Bad Gateway</html>`, apperr.GatewayProtocol, "invalid gateway response"},
		{"empty body", http.StatusOK, ``, apperr.GatewayProtocol, "invalid gateway response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newGatewayStub(t, tt.status, tt.body)
			svc := newTestPaymentService(stub.server.URL)

			_, err := svc.CreatePayment(context.Background(), &models.PaymentRequest{Amount: 10, Email: "a@b.com"})
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("error = %v, want kind %s", err, tt.wantKind)
			}
			if got := apperr.PublicMessage(err); got != tt.wantMsg {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCreatePaymentGatewayUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := newTestPaymentService(url)
	_, err := svc.CreatePayment(context.Background(), &models.PaymentRequest{Amount: 10, Email: "a@b.com"})
	if !apperr.Is(err, apperr.Internal) {
		t.Fatalf("error = %v, want internal error", err)
	}
	if got := apperr.PublicMessage(err); got != "internal server error" {
		t.Errorf("PublicMessage() = %q", got)
	}
}

func TestCreatePaymentGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := newTestConfig(server.URL)
	cfg.Gateway.Timeout = 50 * time.Millisecond
	svc := NewPaymentService(otel.Tracer("test"), cfg)

	_, err := svc.CreatePayment(context.Background(), &models.PaymentRequest{Amount: 10, Email: "a@b.com"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.Internal {
		t.Errorf("error = %v, want internal", err)
	}
}
