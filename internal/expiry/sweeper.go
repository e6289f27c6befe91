// Package expiry removes expired associations from backends that cannot
// expire records on their own.
package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/serroba/babyurl/internal/lifecycle"
	"github.com/serroba/babyurl/internal/messaging"
	"github.com/serroba/babyurl/internal/shortener"
	"go.uber.org/zap"
)

// DefaultInterval is how often the sweeper runs when none is configured.
const DefaultInterval = time.Minute

// Sweeper periodically deletes associations older than the TTL and publishes
// an AssociationExpired event for each.
type Sweeper struct {
	repo     shortener.Sweeper
	ttl      time.Duration
	interval time.Duration
	publish  messaging.Publish[lifecycle.AssociationExpired]
	now      func() time.Time
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithPublisher sets where expiry events go. Events are dropped by default.
func WithPublisher(publish messaging.Publish[lifecycle.AssociationExpired]) Option {
	return func(s *Sweeper) {
		s.publish = publish
	}
}

// New creates a sweeper over repo.
func New(repo shortener.Sweeper, ttl, interval time.Duration, logger *zap.Logger, opts ...Option) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Sweeper{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		publish:  messaging.Discard[lifecycle.AssociationExpired](),
		now:      time.Now,
		logger:   logger.Named("sweeper"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SweepOnce deletes everything created at or before now-TTL and returns how
// many associations were removed. Publish failures are logged, not returned.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()

	codes, err := s.repo.DeleteExpired(ctx, now.Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("delete expired associations: %w", err)
	}

	for _, code := range codes {
		event := &lifecycle.AssociationExpired{Code: string(code), ExpiredAt: now}
		if err := s.publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish expiry event",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}
	}

	if len(codes) > 0 {
		s.logger.Info("swept expired associations", zap.Int("count", len(codes)))
	}

	return len(codes), nil
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// Start runs the sweeper in the background.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.Run(ctx)
	}()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))

	return nil
}

// Shutdown stops the background loop and waits for the current sweep.
func (s *Sweeper) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done
	s.cancel = nil

	return nil
}
