package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Wamwod10/hotel-backend/apperr"
	"github.com/Wamwod10/hotel-backend/logging"
	"github.com/Wamwod10/hotel-backend/models"
	"github.com/Wamwod10/hotel-backend/monitoring"
)

// MailSender is the send-mail capability the dispatcher depends on
type MailSender interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// NotificationTemplates holds the fixed texts sent on a confirmed payment.
// Bodies are fmt templates and may use explicit argument indexes.
type NotificationTemplates struct {
	CustomerSubject string
	CustomerBody    string // amount, description
	AdminSubject    string
	AdminBody       string // customer email, amount, description
}

// DefaultTemplates returns the hotel's Uzbek confirmation texts
func DefaultTemplates(hotelName string) NotificationTemplates {
	return NotificationTemplates{
		CustomerSubject: "To'lov tasdiqlandi - " + hotelName,
		CustomerBody:    "Hurmatli mijoz, siz \"%[2]s\" uchun %[1]d EUR miqdorida to'lov amalga oshirdingiz. Rahmat!",
		AdminSubject:    "Yangi to'lov - " + hotelName,
		AdminBody:       "Mijoz %[1]s %[3]s uchun %[2]d EUR to'lov qildi.",
	}
}

// NotificationService sends confirmation emails for completed payments
type NotificationService struct {
	tracer       trace.Tracer
	mail         MailSender
	converter    Converter
	adminAddress string
	templates    NotificationTemplates
}

// NewNotificationService creates a new notification service
func NewNotificationService(tracer trace.Tracer, mail MailSender, converter Converter, adminAddress string, templates NotificationTemplates) *NotificationService {
	return &NotificationService{
		tracer:       tracer,
		mail:         mail,
		converter:    converter,
		adminAddress: adminAddress,
		templates:    templates,
	}
}

// HandleCallback sends the customer confirmation and then the admin notice.
// A payload without an email is logged and ignored. Both sends are always
// attempted; any failure is reported as a mail delivery error.
func (s *NotificationService) HandleCallback(ctx context.Context, payload *models.CallbackPayload) error {
	ctx, span := s.tracer.Start(ctx, "handle_payment_callback")
	defer span.End()

	logger := logging.WithTraceContext(span)

	email := payload.Email()
	if email == "" {
		logger.Warn("Callback without custom_data.email, no notification sent",
			zap.String("total_sum", payload.TotalSum.String()),
			zap.String("description", payload.Description),
		)
		span.AddEvent("callback_ignored_missing_email")
		return nil
	}

	amount := s.converter.ToForeign(payload.TotalSum)
	span.SetAttributes(
		attribute.String("payment.total_sum", payload.TotalSum.String()),
		attribute.Int64("payment.amount", amount),
	)
	logger.Info("Dispatching payment notifications",
		zap.String("email", email),
		zap.Int64("amount", amount),
		zap.String("description", payload.Description),
	)

	customerErr := s.send(ctx, "customer", email,
		s.templates.CustomerSubject,
		fmt.Sprintf(s.templates.CustomerBody, amount, payload.Description),
	)
	adminErr := s.send(ctx, "admin", s.adminAddress,
		s.templates.AdminSubject,
		fmt.Sprintf(s.templates.AdminBody, email, amount, payload.Description),
	)

	if err := multierr.Combine(customerErr, adminErr); err != nil {
		logger.Error("Payment notification failed", zap.Error(err), zap.String("email", email))
		span.SetStatus(codes.Error, err.Error())
		return apperr.MailDeliveryErr(err)
	}

	span.AddEvent("notifications_sent")
	return nil
}

func (s *NotificationService) send(ctx context.Context, kind, to, subject, body string) error {
	err := s.mail.SendMail(ctx, to, subject, body)

	status := "success"
	if err != nil {
		status = "failed"
		err = fmt.Errorf("%s notification: %w", kind, err)
	}
	monitoring.NotificationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
	return err
}
