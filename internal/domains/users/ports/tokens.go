package ports

import (
	"errors"

	"github.com/Apurer/spottythings-api/internal/domains/users/application/types"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrTokenRevoked = errors.New("access token revoked")
)

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(username string) (types.Session, error)
	Parse(raw string) (types.Claims, error)
}
