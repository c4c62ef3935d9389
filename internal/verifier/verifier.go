// Package verifier resolves bearer tokens to identities on behalf of the
// quiz and users services.
package verifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/pkg/authsdk"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// Verifier answers whether a token is valid and, if so, for whom. It never
// returns an error: anything that prevents a positive answer is a negative
// one.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, bool)
}

// Remote verifies tokens against the auth service.
type Remote struct {
	client *authsdk.Client
	log    *slog.Logger
}

// NewRemote builds a verifier for the auth service at baseURL. A
// non-positive timeout uses authsdk.DefaultTimeout.
func NewRemote(baseURL string, timeout time.Duration, log *slog.Logger) *Remote {
	return NewRemoteWithClient(authsdk.NewClientWithTimeout(baseURL, timeout), log)
}

func NewRemoteWithClient(client *authsdk.Client, log *slog.Logger) *Remote {
	if log == nil {
		log = slogx.Discard()
	}
	return &Remote{client: client, log: log}
}

func (v *Remote) Verify(ctx context.Context, token string) (domain.Identity, bool) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, false
	}

	id, err := v.client.Me(ctx, token)
	if err != nil {
		v.log.WarnContext(ctx, "token verification failed",
			"error", err,
			"kind", domain.ErrDependencyUnavailable.Error(),
			"request_id", slogx.RequestID(ctx),
		)
		return domain.Identity{}, false
	}

	return domain.Identity{
		Username:  id.Username,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		IsStaff:   id.IsStaff,
	}, true
}

// Static is a fixed token table.
type Static map[string]domain.Identity

func (s Static) Verify(_ context.Context, token string) (domain.Identity, bool) {
	id, ok := s[token]
	return id, ok
}
