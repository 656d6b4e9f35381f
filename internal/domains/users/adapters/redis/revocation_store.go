package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

const keyPrefix = "revoked:"

var _ ports.RevocationStore = (*RevocationStore)(nil)

// RevocationStore keeps revoked token IDs in Redis with a TTL matching the token expiry.
type RevocationStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRevocationStore(rdb redis.Cmdable) *RevocationStore {
	return &RevocationStore{rdb: rdb, now: time.Now}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return errors.New("token id is required")
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, keyPrefix+tokenID, expiresAt.Unix(), ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+strings.TrimSpace(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
