package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/spottythings-api/internal/domains/mail/adapters/memory"
	"github.com/Apurer/spottythings-api/internal/domains/mail/application"
	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

type brokenSender struct{}

func (brokenSender) Send(context.Context, domain.Message) error {
	return errors.New("provider unreachable")
}

func TestSend_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := New(application.NewService(memory.NewOutbox()), WithLogger(logger))
	_, err := svc.Send(context.Background(), "", "s", "b")
	require.ErrorIs(t, err, domain.ErrMissingRecipient)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "level=ERROR")

	buf.Reset()
	svc = New(application.NewService(brokenSender{}), WithLogger(logger))
	_, err = svc.Send(context.Background(), "a@b.c", "s", "b")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
}
