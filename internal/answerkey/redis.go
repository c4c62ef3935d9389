package answerkey

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefaultKey is the Redis hash holding question id -> correct option.
const DefaultKey = "quizdesk:answers"

// Redis caches a Source in a single Redis hash. Questions never change once
// created, so a cached entry is valid for as long as it lives. Ids the
// source does not know are never cached, so a question created later is
// picked up on the next lookup.
type Redis struct {
	client *redis.Client
	source Source
	key    string
	ttl    time.Duration
	log    *slog.Logger
	sf     singleflight.Group
}

// NewRedis wraps source. A positive ttl (plus up to 10% jitter) is applied to
// the hash on every fill; zero keeps it forever.
func NewRedis(client *redis.Client, source Source, ttl time.Duration, log *slog.Logger) *Redis {
	if log == nil {
		log = slogx.Discard()
	}
	return &Redis{client: client, source: source, key: DefaultKey, ttl: ttl, log: log}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) CorrectOptions(ctx context.Context, ids []int64) (map[int64]domain.Option, error) {
	ids = distinct(ids)
	out := make(map[int64]domain.Option, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.FormatInt(id, 10)
	}

	vals, err := r.client.HMGet(ctx, r.key, fields...).Result()
	if err != nil {
		r.log.WarnContext(ctx, "answer cache read failed", "error", err)
		return r.source.CorrectOptions(ctx, ids)
	}

	var misses []int64
	for i, v := range vals {
		s, _ := v.(string)
		opt, ok := domain.ParseOption(s)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		out[ids[i]] = opt
	}
	if len(misses) == 0 {
		return out, nil
	}

	found, err := r.load(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, opt := range found {
		out[id] = opt
	}
	return out, nil
}

// load reads misses from the source once per distinct miss set and writes
// what it found back to the hash.
func (r *Redis) load(ctx context.Context, misses []int64) (map[int64]domain.Option, error) {
	v, err, _ := r.sf.Do(flightKey(misses), func() (any, error) {
		found, err := r.source.CorrectOptions(ctx, misses)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return found, nil
		}

		values := make(map[string]any, len(found))
		for id, opt := range found {
			values[strconv.FormatInt(id, 10)] = string(opt)
		}
		pipe := r.client.Pipeline()
		pipe.HSet(ctx, r.key, values)
		if ttl := r.jitteredTTL(); ttl > 0 {
			pipe.Expire(ctx, r.key, ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			r.log.WarnContext(ctx, "answer cache fill failed", "error", err)
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]domain.Option), nil
}

func (r *Redis) jitteredTTL() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	return r.ttl + time.Duration(rand.Int64N(int64(r.ttl)/10+1))
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func flightKey(ids []int64) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
