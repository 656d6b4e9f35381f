package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}, now: time.Now}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return nil, errors.New("username is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, ports.ErrDuplicateUsername
	}
	now := r.now()
	stored := clone(user)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[user.Username] = stored
	return clone(stored), nil
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return nil, errors.New("username is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	stored := clone(user)
	stored.CreatedAt = now
	if existing, ok := r.users[user.Username]; ok {
		stored.CreatedAt = existing.CreatedAt
		if stored.ID == "" {
			stored.ID = existing.ID
		}
	}
	stored.UpdatedAt = now
	r.users[user.Username] = stored
	return clone(stored), nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(user), nil
}

func (r *Repository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, username)
	return nil
}

// List returns all users ordered by username.
func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		list = append(list, clone(user))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func clone(user *domain.User) *domain.User {
	c := *user
	c.PaymentMethods = append([]string(nil), user.PaymentMethods...)
	return &c
}
