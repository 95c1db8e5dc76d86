package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
)

// TokenPruner deletes refresh tokens that expired before a cutoff.
type TokenPruner interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CacheSweepJob evicts expired cache entries and stale tag members.
func CacheSweepJob(s cache.Sweeper) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := s.Sweep(ctx); err != nil {
			return fmt.Errorf("failed to sweep cache: %w", err)
		}
		return nil
	}
}

// TokenPruneJob removes refresh tokens that have been expired for longer
// than grace.
func TokenPruneJob(p TokenPruner, now func() time.Time, grace time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		deleted, err := p.DeleteExpired(ctx, now().Add(-grace))
		if err != nil {
			return fmt.Errorf("failed to prune refresh tokens: %w", err)
		}
		if deleted > 0 {
			slog.InfoContext(ctx, "Pruned expired refresh tokens", "count", deleted)
		}
		return nil
	}
}

// RegisterMaintenance adds the housekeeping jobs. The cache job is skipped
// when c needs no sweeping.
func RegisterMaintenance(s *Scheduler, c cache.Cache, tokens TokenPruner, interval time.Duration) {
	if sw, ok := c.(cache.Sweeper); ok {
		s.AddJob("cache-sweep", interval, CacheSweepJob(sw))
	}
	s.AddJob("refresh-token-prune", time.Hour, TokenPruneJob(tokens, time.Now, 24*time.Hour))
}
