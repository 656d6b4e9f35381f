package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Apurer/spottythings-api/internal/domains/users/application/types"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// DefaultTTL is the access token lifetime when none is configured.
const DefaultTTL = 23200 * time.Second

var _ ports.TokenIssuer = (*Issuer)(nil)

// Issuer signs HS256 access tokens carrying the username and id claims.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is empty")
	}
	i := &Issuer{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

// Issue signs a fresh token for username.
func (i *Issuer) Issue(username string) (types.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.Session{}, errors.New("username is required")
	}
	issuedAt := i.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"id":       username,
		"jti":      uuid.NewString(),
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return types.Session{}, fmt.Errorf("sign token: %w", err)
	}
	return types.Session{
		Token: signed,
		Claims: types.Claims{
			TokenID:   TokenID(signed),
			Username:  username,
			ID:        username,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}, nil
}

// Parse verifies the signature and expiry of raw and extracts its claims.
func (i *Issuer) Parse(raw string) (types.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Claims{}, ports.ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return types.Claims{}, fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
	}
	username, _ := claims["username"].(string)
	if strings.TrimSpace(username) == "" {
		return types.Claims{}, fmt.Errorf("%w: username claim missing", ports.ErrInvalidToken)
	}
	id, _ := claims["id"].(string)
	if id == "" {
		id = username
	}
	result := types.Claims{TokenID: TokenID(raw), Username: username, ID: id}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	return result, nil
}

// TokenID derives the revocation key of a raw token.
func TokenID(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
