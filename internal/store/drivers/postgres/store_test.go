package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/postgres"
	"github.com/aussiebroadwan/quizdesk/pkg/idx"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image: "postgres:15-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     "quizdesk",
				"POSTGRES_PASSWORD": "quizdesk",
				"POSTGRES_DB":       "quizdesk",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://quizdesk:quizdesk@%s:%s/quizdesk?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	requireDocker(t)
	ctx := context.Background()

	s, err := postgres.Open(ctx, startPostgres(t, ctx))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations())
	require.Equal(t, "postgres", s.Driver())

	alice := domain.Account{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.Accounts().Create(ctx, alice))

	t.Run("unique violation maps to ErrAlreadyExists", func(t *testing.T) {
		dup := alice
		dup.ID = idx.New().String()
		dup.Username = "Alice"
		dup.Email = "new@example.com"
		require.ErrorIs(t, s.Accounts().Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("token resolve honours expiry", func(t *testing.T) {
		now := time.Now()
		past := now.Add(-time.Second)
		require.NoError(t, s.Tokens().Create(ctx, domain.Token{Fingerprint: "fp-live", AccountID: alice.ID, CreatedAt: now}))
		require.NoError(t, s.Tokens().Create(ctx, domain.Token{Fingerprint: "fp-dead", AccountID: alice.ID, CreatedAt: now, ExpiresAt: &past}))

		got, err := s.Tokens().Resolve(ctx, "fp-live", now)
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)

		_, err = s.Tokens().Resolve(ctx, "fp-dead", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("questions and answer keys", func(t *testing.T) {
		id, err := s.Questions().Create(ctx, domain.Question{
			Text: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22",
			CorrectOption: domain.OptionB, CreatedBy: "alice", CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		keys, err := s.Questions().CorrectOptions(ctx, []int64{id, id + 100})
		require.NoError(t, err)
		require.Equal(t, map[int64]domain.Option{id: domain.OptionB}, keys)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, delta := range []int64{5, 3} {
			wg.Add(1)
			go func(delta int64) {
				defer wg.Done()
				errs <- s.WithTx(ctx, func(tx store.Tx) error {
					now := time.Now()
					if err := tx.Ledger().Ensure(ctx, "alice", now); err != nil {
						return err
					}
					cur, err := tx.Ledger().LockScore(ctx, "alice")
					if err != nil {
						return err
					}
					return tx.Ledger().SetScore(ctx, "alice", cur+delta, now)
				})
			}(delta)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		p, err := s.Ledger().Profile(ctx, "alice")
		require.NoError(t, err)
		require.EqualValues(t, 8, p.Score)
		require.EqualValues(t, 2, p.Attempts)
	})
}
