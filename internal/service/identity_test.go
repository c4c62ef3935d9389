package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newIdentityService(t, newTestStore(t), newClock())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Password: "secret1", Email: "a@example.com"}},
		{"missing password", RegisterInput{Username: "alice", Email: "a@example.com"}},
		{"missing email", RegisterInput{Username: "alice", Password: "secret1"}},
		{"short username", RegisterInput{Username: "al", Password: "secret1", Email: "a@example.com"}},
		{"short password", RegisterInput{Username: "alice", Password: "12345", Email: "a@example.com"}},
		{"bad email", RegisterInput{Username: "alice", Password: "secret1", Email: "alice@example"}},
		{"blank username", RegisterInput{Username: "   ", Password: "secret1", Email: "a@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegisterAndDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newIdentityService(t, newTestStore(t), newClock())

	acc, err := svc.Register(ctx, RegisterInput{
		Username: " alice ", Password: "pw123!", Email: "alice@example.com", FirstName: "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", acc.Username)
	require.False(t, acc.IsStaff)
	require.NotEqual(t, "pw123!", acc.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Username: "ALICE", Password: "pw123!", Email: "other@example.com"})
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Password: "pw123!", Email: "Alice@Example.com"})
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	svc := newIdentityService(t, st, newClock())

	acc, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123!", Email: "alice@example.com"})
	require.NoError(t, err)

	t.Run("wrong password mints nothing", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "nope!!")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		require.Equal(t, "Invalid credentials", domain.Message(err))

		n, err := st.Tokens().CountForAccount(ctx, acc.ID)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "mallory", "pw123!")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "pw123!")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("by username or email, tokens accumulate", func(t *testing.T) {
		first, err := svc.Login(ctx, "Alice", "pw123!")
		require.NoError(t, err)
		require.False(t, first.IsStaff)
		require.NotNil(t, first.ExpiresAt)

		second, err := svc.Login(ctx, "alice@example.com", "pw123!")
		require.NoError(t, err)
		require.NotEqual(t, first.Token, second.Token)

		for _, tok := range []string{first.Token, second.Token} {
			id, err := svc.Resolve(ctx, tok)
			require.NoError(t, err)
			require.Equal(t, "alice", id.Username)
		}

		// Only fingerprints are stored.
		_, err = st.Tokens().Resolve(ctx, first.Token, time.Now())
		require.Error(t, err)
		_, err = st.Tokens().Resolve(ctx, cryptox.FingerprintToken(first.Token), svc.Now())
		require.NoError(t, err)
	})
}

func TestTokenLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newClock()
	svc := newIdentityService(t, newTestStore(t), c)
	svc.TokenTTL = time.Hour

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123!", Email: "alice@example.com"})
	require.NoError(t, err)
	issued, err := svc.Login(ctx, "alice", "pw123!")
	require.NoError(t, err)

	ok, err := svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = svc.Validate(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Resolve(ctx, "not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	t.Run("expired", func(t *testing.T) {
		c.Advance(2 * time.Hour)
		_, err := svc.Resolve(ctx, issued.Token)
		require.ErrorIs(t, err, domain.ErrInvalidToken)

		ok, err := svc.Validate(ctx, issued.Token)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("logout deletes", func(t *testing.T) {
		fresh, err := svc.Login(ctx, "alice", "pw123!")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, fresh.Token))
		_, err = svc.Resolve(ctx, fresh.Token)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
		require.ErrorIs(t, svc.Logout(ctx, fresh.Token), domain.ErrInvalidToken)
	})
}

func TestTokensWithoutExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newClock()
	svc := newIdentityService(t, newTestStore(t), c)
	svc.TokenTTL = 0

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123!", Email: "alice@example.com"})
	require.NoError(t, err)
	issued, err := svc.Login(ctx, "alice", "pw123!")
	require.NoError(t, err)
	require.Nil(t, issued.ExpiresAt)

	c.Advance(10 * 365 * 24 * time.Hour)
	_, err = svc.Resolve(ctx, issued.Token)
	require.NoError(t, err)
}

func TestSetStaff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newIdentityService(t, newTestStore(t), newClock())

	_, err := svc.Register(ctx, RegisterInput{Username: "staff", Password: "pw123!", Email: "staff@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.SetStaff(ctx, "staff", true))
	issued, err := svc.Login(ctx, "staff", "pw123!")
	require.NoError(t, err)
	require.True(t, issued.IsStaff)

	id, err := svc.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, id.IsStaff)

	require.ErrorIs(t, svc.SetStaff(ctx, "ghost", true), domain.ErrNotFound)
}
