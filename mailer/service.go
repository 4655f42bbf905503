package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Wamwod10/hotel-backend/logging"
)

// Service is the send-mail capability used by the notification flow.
type Service struct {
	sender   Sender
	from     string
	fromName string
	timeout  time.Duration
}

// NewService creates a new mail service sending as fromName <from>.
func NewService(sender Sender, from, fromName string, timeout time.Duration) *Service {
	return &Service{
		sender:   sender,
		from:     from,
		fromName: fromName,
		timeout:  timeout,
	}
}

// SendMail delivers a plain text message to a single recipient. Incomplete
// input is skipped with a warning and reports no error; delivery failures are
// returned to the caller and never retried.
func (s *Service) SendMail(ctx context.Context, to, subject, body string) error {
	if to == "" || subject == "" || body == "" {
		logging.FromContext(ctx).Warn("Mail skipped: recipient, subject or body missing",
			zap.Bool("has_to", to != ""),
			zap.Bool("has_subject", subject != ""),
			zap.Bool("has_body", body != ""),
		)
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.sender.Send(ctx, Email{
		FromName: s.fromName,
		From:     s.from,
		To:       []string{to},
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		logging.FromContext(ctx).Error("Mail delivery failed", zap.Error(err), zap.String("to", to))
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	logging.FromContext(ctx).Info("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
