package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/store"
)

// FeaturedSweeper periodically persists the demotion of expired featured
// boosts. Listings already hide expired boosts at read time; the sweep keeps
// stored documents and caches consistent with them.
type FeaturedSweeper struct {
	jobs     store.JobRepository
	cache    JobCache
	events   EventPublisher
	interval time.Duration
	now      func() time.Time
}

func NewFeaturedSweeper(jobs store.JobRepository, cache JobCache, events EventPublisher, interval time.Duration) *FeaturedSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &FeaturedSweeper{jobs: jobs, cache: cache, events: events, interval: interval, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *FeaturedSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("✅ Featured expiry sweeper started", "interval", s.interval)
	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("featured sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("featured expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce demotes every boost that ended at or before now and returns how
// many jobs changed.
func (s *FeaturedSweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()
	ids, err := s.jobs.ExpireFeatured(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.events != nil {
		for _, id := range ids {
			s.events.Publish(ctx, JobEvent{Type: EventJobExpired, JobID: id, Timestamp: now})
		}
	}
	metrics.FeaturedExpiredTotal.Add(float64(len(ids)))
	slog.InfoContext(ctx, "featured boosts expired", "count", len(ids))
	return len(ids), nil
}
