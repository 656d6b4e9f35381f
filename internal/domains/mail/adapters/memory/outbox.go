package memory

import (
	"context"
	"sync"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

// Outbox records messages instead of delivering them.
type Outbox struct {
	mu       sync.RWMutex
	messages []domain.Message
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Send(_ context.Context, msg domain.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

// Store lets the outbox double as an archive.
func (o *Outbox) Store(ctx context.Context, msg domain.Message) error {
	return o.Send(ctx, msg)
}

// Messages returns a snapshot of everything recorded so far.
func (o *Outbox) Messages() []domain.Message {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]domain.Message(nil), o.messages...)
}

// Last returns the most recent message addressed to the recipient.
func (o *Outbox) Last(to string) (domain.Message, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for i := len(o.messages) - 1; i >= 0; i-- {
		if o.messages[i].To == to {
			return o.messages[i], true
		}
	}
	return domain.Message{}, false
}

var (
	_ ports.Sender  = (*Outbox)(nil)
	_ ports.Archive = (*Outbox)(nil)
)
