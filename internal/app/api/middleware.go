package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	usertypes "github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// TokenHeader carries the access token on authenticated requests.
const TokenHeader = "x-access-token"

const claimsKey = "auth.claims"

func requestToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(TokenHeader))
}

// requireToken rejects requests without a valid, unrevoked access token.
func requireToken(users userports.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := requestToken(c)
		if raw == "" {
			respondFailure(c, http.StatusUnauthorized, msgNoToken)
			return
		}
		claims, err := users.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, userapp.ErrAuthentication) {
				logger.ErrorContext(c.Request.Context(), "token check failed", slog.String("error", err.Error()))
			}
			respondFailure(c, http.StatusForbidden, msgBadToken)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// authorizedFor reports whether the authenticated caller may act on username.
func authorizedFor(c *gin.Context, username string) bool {
	value, ok := c.Get(claimsKey)
	if !ok {
		return false
	}
	claims, ok := value.(usertypes.Claims)
	if !ok {
		return false
	}
	username = strings.TrimSpace(username)
	return username != "" && (claims.Username == username || claims.ID == username)
}

// clientLimiter hands out one token bucket per client IP.
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*limiterEntry
	now     func() time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

const limiterIdleTTL = 10 * time.Minute

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	entry, ok := l.clients[key]
	if !ok {
		l.evictIdle(now)
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.seen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *clientLimiter) evictIdle(now time.Time) {
	for key, entry := range l.clients {
		if now.Sub(entry.seen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

// rateLimit answers 429 once a client exceeds its budget. A zero rate disables it.
func rateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newClientLimiter(rps, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			respondFailure(c, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		c.Next()
	}
}

// requestLogger writes one structured line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("clientIp", c.ClientIP()),
		)
	}
}
