package minio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
)

func TestObjectKey(t *testing.T) {
	msg := domain.Message{ID: "abc", SentAt: time.Date(2024, 3, 7, 23, 30, 0, 0, time.UTC)}
	assert.Equal(t, "mail/2024/03/07/abc.json", ObjectKey(msg))
}

func TestNewArchive_RequiresEndpoint(t *testing.T) {
	_, err := NewArchive(context.Background(), Config{Bucket: "sent-mail"})
	assert.Error(t, err)
}
