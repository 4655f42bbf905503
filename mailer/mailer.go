package mailer

import "context"

// Sender delivers a fully addressed email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To      []string
	Subject string

	TextBody string
}
