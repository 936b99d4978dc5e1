// Package worker hosts the background sweeper that reconciles analysis
// records left in processing state by a crashed or interrupted run.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reelscope/internal/storage"
)

// Sweeper periodically fails analysis records that have been processing
// longer than maxAge.
type Sweeper struct {
	analyses *storage.AnalysisRepository
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewSweeper(analyses *storage.AnalysisRepository, interval, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		analyses: analyses,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start begins sweeping in the background.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("sweeper started", "interval", s.interval, "max_age", s.maxAge)
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	count, err := s.analyses.FailStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to sweep stale analyses", "error", err)
		return
	}
	if count > 0 {
		s.logger.Warn("failed stale analyses", "count", count)
	}
}
