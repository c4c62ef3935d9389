package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestIncrementConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	ids := newIdentityService(t, st, newClock())
	_, err := ids.Register(ctx, RegisterInput{Username: "alice", Password: "pw123!", Email: "alice@example.com"})
	require.NoError(t, err)

	ledger := &LedgerService{Store: st}
	alice := domain.Identity{Username: "alice"}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, delta := range []int64{5, 3} {
		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			_, err := ledger.Increment(ctx, alice, "alice", delta)
			errs <- err
		}(delta)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := ledger.Get(ctx, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 8, p.Score)
	require.EqualValues(t, 2, p.Attempts)

	score, err := ledger.Increment(ctx, alice, "alice", -10)
	require.NoError(t, err)
	require.EqualValues(t, -2, score)
}

func TestIncrementRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := &LedgerService{Store: newTestStore(t)}
	alice := domain.Identity{Username: "alice"}

	_, err := ledger.Increment(ctx, alice, "alice", 0)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = ledger.Increment(ctx, alice, "bob", 1)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = ledger.Increment(ctx, domain.Identity{Username: "bob", IsStaff: true}, "alice", 1)
	require.ErrorIs(t, err, domain.ErrForbidden, "staff cannot change someone else's score")
}

func TestProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	ids := newIdentityService(t, st, newClock())
	for _, u := range []string{"alice", "bob"} {
		_, err := ids.Register(ctx, RegisterInput{Username: u, Password: "pw123!", Email: u + "@example.com"})
		require.NoError(t, err)
	}
	ledger := &LedgerService{Store: st, Now: func() time.Time { return time.Unix(1700000000, 0) }}

	p, err := ledger.Get(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, p.Score)

	_, err = ledger.Get(ctx, "carol")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ledger.Increment(ctx, domain.Identity{Username: "bob"}, "bob", 7)
	require.NoError(t, err)

	_, err = ledger.List(ctx, domain.Identity{Username: "alice"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	list, err := ledger.List(ctx, domain.Identity{Username: "root", IsStaff: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "bob", list[0].Username)
	require.EqualValues(t, 7, list[0].Score)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), *list[0].UpdatedAt)
}
