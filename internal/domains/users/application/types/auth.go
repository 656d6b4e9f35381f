package types

import "time"

// Claims is the verified content of an access token.
type Claims struct {
	TokenID   string
	Username  string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is an issued access token together with its claims.
type Session struct {
	Token  string
	Claims Claims
}

// PasswordReset describes a temporary password issued during a reset request.
type PasswordReset struct {
	Username          string
	Email             string
	TemporaryPassword string
}
