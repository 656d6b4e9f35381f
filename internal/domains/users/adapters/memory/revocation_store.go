package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

var _ ports.RevocationStore = (*RevocationStore)(nil)

// RevocationStore keeps revoked token IDs in memory until they expire.
type RevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: map[string]time.Time{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *RevocationStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *RevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if expiresAt.After(now) {
		s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.revoked[tokenID]
	return ok && exp.After(s.now()), nil
}
