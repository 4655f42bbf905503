package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Wamwod10/hotel-backend/apperr"
	"github.com/Wamwod10/hotel-backend/config"
	"github.com/Wamwod10/hotel-backend/logging"
	"github.com/Wamwod10/hotel-backend/models"
	"github.com/Wamwod10/hotel-backend/service"
)

// NotificationHandler serves the gateway callback, the browser success
// notification and direct mail requests.
type NotificationHandler struct {
	notificationService *service.NotificationService
	mail                service.MailSender
	trigger             string // endpoint that dispatches confirmation emails
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, mail service.MailSender, trigger string) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		mail:                mail,
		trigger:             trigger,
	}
}

// PaymentCallback handles the gateway's server-to-server POST /payment-callback
func (h *NotificationHandler) PaymentCallback(c *gin.Context) {
	if h.trigger != config.TriggerCallback {
		h.Acknowledge(c)
		return
	}

	payload, ok := bindCallback(c)
	if !ok {
		return
	}

	if err := h.notificationService.HandleCallback(c.Request.Context(), payload); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CallbackResponse{Status: "ok"})
}

// Acknowledge confirms receipt of a callback without side effects
func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	logging.FromContext(c.Request.Context()).Info("Callback acknowledged",
		zap.String("request_id", requestID(c)),
	)
	c.JSON(http.StatusOK, models.CallbackResponse{Status: "received"})
}

// Success handles the client-driven POST /success after the payer returns
func (h *NotificationHandler) Success(c *gin.Context) {
	if h.trigger != config.TriggerSuccess {
		c.JSON(http.StatusOK, models.CallbackResponse{Status: "success", Message: "payment confirmed"})
		return
	}

	payload, ok := bindCallback(c)
	if !ok {
		return
	}

	if err := h.notificationService.HandleCallback(c.Request.Context(), payload); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CallbackResponse{Status: "success", Message: "payment confirmed, notifications sent"})
}

// SendEmail handles POST /send-email
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req models.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	if err := h.mail.SendMail(c.Request.Context(), req.To, req.Subject, req.Text); err != nil {
		logging.FromContext(c.Request.Context()).Error("Direct mail failed",
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": apperr.PublicMessage(apperr.MailDeliveryErr(err))})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bindCallback reads a callback as JSON or, for form posts, as
// urlencoded fields with custom_data[email] or custom_data.email.
func bindCallback(c *gin.Context) (*models.CallbackPayload, bool) {
	var (
		payload models.CallbackPayload
		err     error
	)
	if c.ContentType() == binding.MIMEPOSTForm {
		err = bindCallbackForm(c, &payload)
	} else {
		err = c.ShouldBindJSON(&payload)
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("Invalid callback body",
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
		fail(c, apperr.ValidationErr("invalid callback body"))
		return nil, false
	}
	return &payload, true
}

func bindCallbackForm(c *gin.Context, payload *models.CallbackPayload) error {
	if err := c.Request.ParseForm(); err != nil {
		return err
	}

	if raw := c.PostForm("total_sum"); raw != "" {
		totalSum, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("total_sum: %w", err)
		}
		payload.TotalSum = totalSum
	}
	payload.Description = c.PostForm("description")

	email := c.PostForm("custom_data[email]")
	if email == "" {
		email = c.PostForm("custom_data.email")
	}
	if email != "" {
		payload.CustomData = &models.CustomData{Email: email}
	}
	return nil
}
