package service

import (
	"context"
	"sync"
	"time"

	"smartmedishop-storefront/internal/repository"

	"go.uber.org/zap"
)

// CleanupConfig holds configuration for the cleanup scheduler.
type CleanupConfig struct {
	// IdleTimeout is how long an unused shopper stays in memory.
	IdleTimeout time.Duration
	// Retention is how long journal rows are kept. Zero keeps them forever.
	Retention time.Duration
	// Interval is how often the cleanup runs.
	Interval time.Duration
}

// CleanupScheduler periodically evicts idle shoppers and purges old journal rows.
type CleanupScheduler struct {
	store     *Storefront
	journal   repository.CheckoutJournal
	config    CleanupConfig
	logger    *zap.Logger
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewCleanupScheduler creates a cleanup scheduler. journal may be nil.
func NewCleanupScheduler(store *Storefront, journal repository.CheckoutJournal, config CleanupConfig, logger *zap.Logger) *CleanupScheduler {
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 30 * time.Minute
	}
	if config.Interval == 0 {
		config.Interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CleanupScheduler{
		store:   store,
		journal: journal,
		config:  config,
		logger:  logger.Named("cleanup"),
		stopCh:  make(chan struct{}),
	}
}

// Start begins the cleanup loop.
func (s *CleanupScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	s.logger.Info("cleanup scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("idle_timeout", s.config.IdleTimeout),
		zap.Duration("retention", s.config.Retention),
	)

	go s.run()
}

func (s *CleanupScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, _, err := s.RunNow(ctx); err != nil {
				s.logger.Warn("cleanup failed", zap.Error(err))
			}
			cancel()
		case <-s.stopCh:
			s.logger.Info("cleanup scheduler stopped")
			return
		}
	}
}

// RunNow evicts idle shoppers and purges the journal immediately.
func (s *CleanupScheduler) RunNow(ctx context.Context) (evicted int, purged int64, err error) {
	evicted = s.store.EvictIdle(s.config.IdleTimeout)
	if evicted > 0 {
		s.logger.Debug("evicted idle shoppers", zap.Int("count", evicted))
	}

	if s.journal == nil || s.config.Retention <= 0 {
		return evicted, 0, nil
	}
	purged, err = s.journal.DeleteOlderThan(ctx, s.config.Retention)
	return evicted, purged, err
}

// Stop stops the cleanup scheduler.
func (s *CleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}
