package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/store"
)

// HousekeepingService periodically deletes expired tokens so the tokens
// table does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration
	Now      func() time.Time

	stopCh    chan struct{}
	doneCh    chan struct{}
	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewHousekeepingService returns a stopped service. A non-positive interval
// defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs a sweep immediately and then once per Interval until Stop.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop blocks until any in-progress sweep has finished. It is a no-op if
// the service was never started.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	n, err := s.DeleteExpiredTokens(context.Background())
	if err != nil {
		s.Logger.Error("failed to delete expired tokens", "error", err)
		return
	}
	s.Logger.Info("housekeeping sweep completed", "expired_tokens_deleted", n)
}

// DeleteExpiredTokens removes every token expired at the current time.
func (s *HousekeepingService) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	return s.Store.Tokens().DeleteExpired(wctx, nowFunc(s.Now))
}
