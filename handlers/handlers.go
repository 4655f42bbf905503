package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	"github.com/Wamwod10/hotel-backend/apperr"
	"github.com/Wamwod10/hotel-backend/models"
	"github.com/Wamwod10/hotel-backend/service"
)

// PaymentHandler handles HTTP requests for payments
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment handles POST /create-payment
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.ValidationErr(bindErrorMessage(err)))
		return
	}

	response, err := h.paymentService.CreatePayment(ctx, &req)
	if err != nil {
		fail(c, err)
		return
	}

	span.AddEvent("payment_created")
	c.JSON(http.StatusOK, response)
}

// HealthCheck handles health check requests
func (h *PaymentHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// bindErrorMessage maps a binding failure to a client-facing message.
func bindErrorMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		switch strings.ToLower(ve[0].Field()) {
		case "amount":
			return "invalid amount"
		case "email":
			return "email is required"
		}
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		switch strings.ToLower(ute.Field) {
		case "amount":
			return "invalid amount"
		case "email":
			return "invalid email"
		}
	}

	return "invalid request body"
}
