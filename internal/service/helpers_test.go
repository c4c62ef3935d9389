package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/quizdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// cheapParams keeps argon2 fast in tests.
var cheapParams = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newIdentityService(t *testing.T, s store.Store, c *clock) *IdentityService {
	t.Helper()
	return &IdentityService{
		Store:    s,
		Hasher:   cryptox.NewHasher("test-pepper", 4, cheapParams),
		TokenTTL: DefaultTokenTTL,
		Now:      c.Now,
	}
}
