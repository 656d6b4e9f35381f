package ports

import (
	"context"
	"time"
)

// RevocationStore remembers logged-out tokens until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRevocationStore never revokes anything.
var NoopRevocationStore RevocationStore = noopRevocationStore{}

type noopRevocationStore struct{}

func (noopRevocationStore) Revoke(context.Context, string, time.Time) error { return nil }
func (noopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
