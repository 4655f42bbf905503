package mailer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSendMailSkipsIncompleteInput(t *testing.T) {
	tests := []struct {
		name, to, subject, body string
	}{
		{"no recipient", "", "Subject", "Body"},
		{"no subject", "a@b.com", "", "Body"},
		{"no body", "a@b.com", "Subject", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &Mock{}
			svc := NewService(mock, "hotel@example.com", "Khamsa Hotel", time.Second)

			if err := svc.SendMail(context.Background(), tt.to, tt.subject, tt.body); err != nil {
				t.Fatalf("SendMail() error = %v, want nil", err)
			}
			if len(mock.Sent) != 0 {
				t.Errorf("expected no delivery, got %d", len(mock.Sent))
			}
		})
	}
}

func TestSendMailDelivers(t *testing.T) {
	mock := &Mock{}
	svc := NewService(mock, "hotel@example.com", "Khamsa Hotel", time.Second)

	if err := svc.SendMail(context.Background(), "guest@example.com", "Hello", "Body"); err != nil {
		t.Fatalf("SendMail() error = %v", err)
	}
	if len(mock.Sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mock.Sent))
	}

	got := mock.Sent[0]
	if got.From != "hotel@example.com" || got.FromName != "Khamsa Hotel" {
		t.Errorf("from = %q <%q>", got.FromName, got.From)
	}
	if len(got.To) != 1 || got.To[0] != "guest@example.com" {
		t.Errorf("to = %v", got.To)
	}
	if got.Subject != "Hello" || got.TextBody != "Body" {
		t.Errorf("subject/body = %q/%q", got.Subject, got.TextBody)
	}
}

func TestSendMailPropagatesFailure(t *testing.T) {
	sendErr := errors.New("535 authentication failed")
	svc := NewService(&Mock{Err: sendErr}, "hotel@example.com", "", 0)

	err := svc.SendMail(context.Background(), "guest@example.com", "Hello", "Body")
	if !errors.Is(err, sendErr) {
		t.Fatalf("SendMail() error = %v, want wrapping %v", err, sendErr)
	}
}
