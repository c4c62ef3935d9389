package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// writeError maps a service error onto the wire. Causes of server errors
// are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	msg := domain.Message(err)

	var apiErr *httpx.APIError
	switch {
	case errors.Is(err, domain.ErrValidation):
		apiErr = httpx.ErrInvalidRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		apiErr = httpx.ErrInvalidCredentials
	case errors.Is(err, domain.ErrInvalidToken):
		apiErr = httpx.ErrInvalidToken
	case errors.Is(err, domain.ErrForbidden):
		apiErr = httpx.ErrForbidden
	case errors.Is(err, domain.ErrNotFound):
		apiErr = httpx.ErrNotFound
	case errors.Is(err, domain.ErrDuplicateIdentity):
		apiErr = httpx.ErrConflict
	default:
		slogx.FromContext(r.Context()).ErrorContext(r.Context(), "request failed", "error", err)
		apiErr = httpx.ErrServerError
	}

	if msg != "" {
		apiErr = apiErr.WithDescription(msg)
	}
	apiErr.WriteError(w)
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.ErrInvalidRequest.WithDescription(desc).WriteError(w)
}

// authenticate resolves the caller's token through v, writing a 401 and
// returning false when it cannot.
func authenticate(ctx context.Context, v verifier.Verifier, w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := v.Verify(ctx, httpx.TokenFromRequest(r))
	if !ok {
		httpx.ErrInvalidToken.WithDescription("Invalid token").WriteError(w)
		return domain.Identity{}, false
	}
	return id, true
}
