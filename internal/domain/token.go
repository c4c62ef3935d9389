package domain

import "time"

// Token is the persisted half of a bearer token: only the SHA-256
// fingerprint of the value handed to the client is stored.
type Token struct {
	Fingerprint string
	AccountID   string
	CreatedAt   time.Time
	ExpiresAt   *time.Time // nil never expires
}

// Live reports whether the token is usable at now.
func (t Token) Live(now time.Time) bool {
	return t.ExpiresAt == nil || now.Before(*t.ExpiresAt)
}

// IssuedToken is returned once, at login.
type IssuedToken struct {
	Token     string
	IsStaff   bool
	ExpiresAt *time.Time
}
