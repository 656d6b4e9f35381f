package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_PerClientBudget(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.allow("10.0.0.1"))
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	limiter.allow("10.0.0.2")

	assert.NotContains(t, limiter.clients, "10.0.0.1")
	assert.Contains(t, limiter.clients, "10.0.0.2")
}
