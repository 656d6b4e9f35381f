package resend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	rs "github.com/resend/resend-go/v2"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

// Sender delivers messages through the Resend API.
type Sender struct {
	client *rs.Client
	from   string
}

type Option func(*rs.Client) error

// WithBaseURL overrides the Resend API endpoint.
func WithBaseURL(raw string) Option {
	return func(c *rs.Client) error {
		u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
		if err != nil {
			return err
		}
		c.BaseURL = u
		return nil
	}
}

func NewSender(apiKey, fromAddr, fromName string, opts ...Option) (*Sender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("resend api key is required")
	}
	client := rs.NewClient(apiKey)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	from := fromAddr
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddr)
	}
	return &Sender{client: client, from: from}, nil
}

func (s *Sender) Send(ctx context.Context, msg domain.Message) error {
	params := &rs.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return &domain.DeliveryError{Code: domain.CodeProvider, Message: err.Error()}
	}
	return nil
}

var _ ports.Sender = (*Sender)(nil)
