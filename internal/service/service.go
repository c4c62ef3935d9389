// Package service holds the business operations behind the auth, quiz and
// users HTTP surfaces. Callers are expected to have resolved the requesting
// identity already; services only decide what that identity may do.
package service

import (
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

var (
	errTokenMissing       = &domain.Error{Kind: domain.ErrInvalidToken, Message: "Token missing"}
	errInvalidToken       = &domain.Error{Kind: domain.ErrInvalidToken, Message: "Invalid token"}
	errInvalidCredentials = &domain.Error{Kind: domain.ErrInvalidCredentials, Message: "Invalid credentials"}
)

func nowFunc(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
