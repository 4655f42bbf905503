package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Wamwod10/hotel-backend/apperr"
	"github.com/Wamwod10/hotel-backend/config"
	"github.com/Wamwod10/hotel-backend/logging"
	"github.com/Wamwod10/hotel-backend/models"
	"github.com/Wamwod10/hotel-backend/monitoring"
)

const (
	// DefaultDescription is used when the client sends none
	DefaultDescription = "Mehmonxona to'lovi"

	localCurrency   = "UZS"
	foreignCurrency = "EUR"
	gatewayLanguage = "uz"
	initTimeLayout  = "2006-01-02 15:04:05"
)

// PaymentService creates hosted payment sessions at the payment gateway
type PaymentService struct {
	tracer    trace.Tracer
	client    *resty.Client
	gateway   config.GatewayConfig
	converter Converter
	returnURL string
	notifyURL string
	now       func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(tracer trace.Tracer, cfg *config.Config) *PaymentService {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(cfg.Gateway.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &PaymentService{
		tracer:    tracer,
		client:    client,
		gateway:   cfg.Gateway,
		converter: NewConverter(cfg.ExchangeRate),
		returnURL: cfg.ReturnURL(),
		notifyURL: cfg.NotifyURL(),
		now:       time.Now,
	}
}

// CreatePayment validates req, registers the payment at the gateway and
// returns the hosted payment page URL.
func (s *PaymentService) CreatePayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "create_payment")
	defer span.End()

	if err := validatePaymentRequest(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Float64("payment.amount", req.Amount))

	payload, err := s.buildPayload(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("payment.transaction_id", payload.TransactionID),
		attribute.Int64("payment.total_sum", payload.TotalSum),
	)

	logger := logging.WithTraceContext(span)
	logger.Info("Creating payment",
		zap.String("transaction_id", payload.TransactionID),
		zap.Float64("amount", req.Amount),
		zap.Int64("total_sum", payload.TotalSum),
		zap.String("email", req.Email),
	)

	payURL, err := s.callGateway(ctx, payload)
	if err != nil {
		logger.Error("Payment creation failed",
			zap.Error(err),
			zap.String("transaction_id", payload.TransactionID),
		)
		monitoring.PaymentCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", string(failureKind(err)))),
		)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	monitoring.PaymentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	monitoring.PaymentAmount.Record(ctx, req.Amount)
	span.SetAttributes(attribute.String("payment.status", "created"))

	return &models.PaymentResponse{PaymentURL: payURL}, nil
}

func validatePaymentRequest(req *models.PaymentRequest) error {
	if req == nil || req.Amount <= 0 {
		return apperr.ValidationErr("invalid amount")
	}
	if req.Email == "" {
		return apperr.ValidationErr("email is required")
	}
	return nil
}

func (s *PaymentService) buildPayload(req *models.PaymentRequest) (*models.GatewayPayload, error) {
	now := s.now()
	amount := decimal.NewFromFloat(req.Amount)

	totalSum, err := s.converter.ToLocal(amount)
	if err != nil {
		return nil, apperr.ValidationErr("invalid amount")
	}

	description := req.Description
	if description == "" {
		description = DefaultDescription
	}

	return &models.GatewayPayload{
		ShopID:        s.gateway.ShopID,
		Secret:        s.gateway.Secret,
		TransactionID: strconv.FormatInt(now.UnixMilli(), 10),
		AutoCapture:   true,
		Test:          false,
		InitTime:      now.UTC().Format(initTimeLayout),
		TotalSum:      totalSum,
		Currency:      localCurrency,
		Description:   fmt.Sprintf("%s (%s %s)", description, amount.String(), foreignCurrency),
		ReturnURL:     s.returnURL,
		NotifyURL:     s.notifyURL,
		Language:      gatewayLanguage,
		CustomData:    models.CustomData{Email: req.Email},
	}, nil
}

// callGateway posts payload and maps the gateway reply. The HTTP status is not
// consulted: the gateway reports business failures in the body.
func (s *PaymentService) callGateway(ctx context.Context, payload *models.GatewayPayload) (string, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("external.service", "payment-gateway"))

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.gateway.URL)
	duration := time.Since(start).Seconds()

	if err != nil {
		s.recordGatewayCall(ctx, duration, "error")
		return "", apperr.Wrap(fmt.Errorf("failed to call payment gateway: %w", err))
	}

	raw := resp.Body()
	span.SetAttributes(attribute.Int("external.status_code", resp.StatusCode()))

	var gwResp models.GatewayResponse
	if err := json.Unmarshal(raw, &gwResp); err != nil {
		s.recordGatewayCall(ctx, duration, "invalid_response")
		logging.WithTraceContext(span).Error("Gateway returned a non-JSON body",
			zap.Int("status_code", resp.StatusCode()),
			zap.ByteString("body", truncate(raw, 512)),
		)
		return "", apperr.GatewayProtocolErr(err)
	}

	if gwResp.Error != nil && *gwResp.Error == 0 && gwResp.Data != nil && gwResp.Data.OctoPayURL != "" {
		s.recordGatewayCall(ctx, duration, "success")
		return gwResp.Data.OctoPayURL, nil
	}

	s.recordGatewayCall(ctx, duration, "rejected")
	if gwResp.Error != nil {
		span.SetAttributes(attribute.Int("external.error_code", *gwResp.Error))
	}
	return "", apperr.GatewayBusinessErr(gwResp.ErrMessage)
}

func (s *PaymentService) recordGatewayCall(ctx context.Context, seconds float64, status string) {
	monitoring.GatewayCallDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("status", status)),
	)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("external.status", status))
}

func failureKind(err error) apperr.Kind {
	if ae, ok := apperr.As(err); ok {
		return ae.Kind
	}
	return apperr.Internal
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
