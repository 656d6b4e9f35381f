package sendgrid

import (
	"context"
	"errors"
	"strings"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Sender delivers messages through the SendGrid v3 API.
type Sender struct {
	apiKey   string
	host     string
	fromName string
	fromAddr string
}

type Option func(*Sender)

// WithHost points the client at a different API host.
func WithHost(host string) Option {
	return func(s *Sender) {
		if host = strings.TrimRight(strings.TrimSpace(host), "/"); host != "" {
			s.host = host
		}
	}
}

func NewSender(apiKey, fromAddr, fromName string, opts ...Option) (*Sender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	s := &Sender{apiKey: apiKey, host: defaultHost, fromAddr: fromAddr, fromName: fromName}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Sender) Send(ctx context.Context, msg domain.Message) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddr)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	request := sg.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = rest.Post
	client := &sg.Client{Request: request}

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return &domain.DeliveryError{Code: domain.CodeProvider, Message: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return &domain.DeliveryError{
			Code:       domain.CodeProvider,
			Message:    strings.TrimSpace(resp.Body),
			StatusCode: resp.StatusCode,
		}
	}
	return nil
}

var _ ports.Sender = (*Sender)(nil)
