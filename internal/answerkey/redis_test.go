package answerkey_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/quizdesk/internal/answerkey"
	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu    sync.Mutex
	keys  map[int64]domain.Option
	calls [][]int64
	err   error
}

func (s *countingSource) CorrectOptions(_ context.Context, ids []int64) (map[int64]domain.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]int64(nil), ids...))
	if s.err != nil {
		return nil, s.err
	}
	out := map[int64]domain.Option{}
	for _, id := range ids {
		if opt, ok := s.keys[id]; ok {
			out[id] = opt
		}
	}
	return out, nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newCache(t *testing.T, src answerkey.Source) (*answerkey.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return answerkey.NewRedis(client, src, time.Minute, nil), mr
}

func TestRedisCachesHits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &countingSource{keys: map[int64]domain.Option{1: domain.OptionA, 2: domain.OptionC}}
	cache, mr := newCache(t, src)

	got, err := cache.CorrectOptions(ctx, []int64{1, 2, 1})
	require.NoError(t, err)
	require.Equal(t, map[int64]domain.Option{1: domain.OptionA, 2: domain.OptionC}, got)
	require.Equal(t, 1, src.callCount())
	require.Equal(t, "C", mr.HGet(answerkey.DefaultKey, "2"))
	require.True(t, mr.TTL(answerkey.DefaultKey) >= time.Minute)

	got, err = cache.CorrectOptions(ctx, []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, src.callCount(), "second lookup is served from redis")
}

func TestRedisNeverCachesUnknownIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &countingSource{keys: map[int64]domain.Option{1: domain.OptionB}}
	cache, mr := newCache(t, src)

	got, err := cache.CorrectOptions(ctx, []int64{1, 99})
	require.NoError(t, err)
	require.Equal(t, map[int64]domain.Option{1: domain.OptionB}, got)
	require.Empty(t, mr.HGet(answerkey.DefaultKey, "99"))

	// The question appears later and is found without any invalidation.
	src.mu.Lock()
	src.keys[99] = domain.OptionD
	src.mu.Unlock()

	got, err = cache.CorrectOptions(ctx, []int64{1, 99})
	require.NoError(t, err)
	require.Equal(t, domain.OptionD, got[99])

	src.mu.Lock()
	require.Equal(t, []int64{99}, src.calls[1], "only the miss is read from the source")
	src.mu.Unlock()
}

func TestRedisFallsBackWhenUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &countingSource{keys: map[int64]domain.Option{7: domain.OptionA}}
	cache, mr := newCache(t, src)
	mr.Close()

	got, err := cache.CorrectOptions(ctx, []int64{7})
	require.NoError(t, err)
	require.Equal(t, map[int64]domain.Option{7: domain.OptionA}, got)
	require.Error(t, cache.Ping(ctx))
}

func TestRedisPropagatesSourceErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	cache, _ := newCache(t, &countingSource{err: boom})

	_, err := cache.CorrectOptions(context.Background(), []int64{1})
	require.ErrorIs(t, err, boom)
}

func TestRedisEmptyInput(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	cache, _ := newCache(t, src)

	got, err := cache.CorrectOptions(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Zero(t, src.callCount())
}
