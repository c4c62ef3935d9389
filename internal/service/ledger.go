package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// LedgerService keeps one running score per username.
type LedgerService struct {
	Store   store.Store
	Timeout time.Duration
	Now     func() time.Time
}

// Increment adds delta to username's score and returns the new value. Only
// the owner may change their score. The row is created on first use and
// locked for the read-modify-write so concurrent increments all land.
func (s *LedgerService) Increment(ctx context.Context, identity domain.Identity, username string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, domain.Validationf("score_increment must be non-zero")
	}
	if identity.Username != username {
		return 0, domain.Forbidden("Forbidden: can only update own score")
	}

	var score int64
	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	err := s.Store.WithTx(wctx, func(tx store.Tx) error {
		now := nowFunc(s.Now)
		if err := tx.Ledger().Ensure(wctx, username, now); err != nil {
			return err
		}
		current, err := tx.Ledger().LockScore(wctx, username)
		if err != nil {
			return err
		}
		score = current + delta
		return tx.Ledger().SetScore(wctx, username, score, now)
	})
	if err != nil {
		return 0, domain.Persistence("update score", err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "score updated", "username", username, "increment", delta, "score", score)
	return score, nil
}

// Get returns the public profile of username.
func (s *LedgerService) Get(ctx context.Context, username string) (domain.Profile, error) {
	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	p, err := s.Store.Ledger().Profile(rctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, domain.NotFound("User not found")
	}
	if err != nil {
		return domain.Profile{}, domain.Persistence("load profile", err)
	}
	return p, nil
}

// List returns every profile, highest score first. Staff only.
func (s *LedgerService) List(ctx context.Context, requester domain.Identity) ([]domain.Profile, error) {
	if !requester.IsStaff {
		return nil, domain.Forbidden("Forbidden: staff only")
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	ps, err := s.Store.Ledger().Profiles(rctx)
	if err != nil {
		return nil, domain.Persistence("list profiles", err)
	}
	return ps, nil
}
