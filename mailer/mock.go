package mailer

import (
	"context"
	"sync"
)

// Mock records sent emails. Err, or FailFor for a specific recipient, is returned from Send.
type Mock struct {
	mu      sync.Mutex
	Sent    []Email
	Err     error
	FailFor map[string]error
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, e)
	for _, to := range e.To {
		if err, ok := m.FailFor[to]; ok {
			return err
		}
	}
	return m.Err
}

// Recipients returns the first recipient of every recorded email, in send order.
func (m *Mock) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, e := range m.Sent {
		if len(e.To) > 0 {
			out = append(out, e.To[0])
		}
	}
	return out
}
