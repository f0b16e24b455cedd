// Package worker runs the server's background maintenance.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/fairshare/internal/cache"
)

// GroupPruner deletes groups that have been inactive since before a Unix timestamp.
type GroupPruner interface {
	PruneInactiveGroups(ctx context.Context, before int64) (int64, error)
}

// Pruner periodically deletes inactive groups and sweeps expired cache entries.
type Pruner struct {
	store    GroupPruner
	ttl      time.Duration
	interval time.Duration
	cleaners []cache.Cleaner
	onPruned func(n int64)
	now      func() time.Time
}

// PrunerOption configures a Pruner.
type PrunerOption func(*Pruner)

// WithCacheCleaner sweeps c on every pass.
func WithCacheCleaner(c cache.Cleaner) PrunerOption {
	return func(p *Pruner) { p.cleaners = append(p.cleaners, c) }
}

// WithPruneHook is called with the number of groups removed by each pass.
func WithPruneHook(fn func(n int64)) PrunerOption {
	return func(p *Pruner) { p.onPruned = fn }
}

func NewPruner(store GroupPruner, ttl, interval time.Duration, opts ...PrunerOption) *Pruner {
	p := &Pruner{
		store:    store,
		ttl:      ttl,
		interval: interval,
		onPruned: func(int64) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PruneOnce deletes every group whose last activity is older than the TTL.
func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.ttl)

	n, err := p.store.PruneInactiveGroups(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune inactive groups: %w", err)
	}
	p.onPruned(n)

	swept := 0
	for _, c := range p.cleaners {
		swept += c.CleanExpired()
	}

	if n > 0 || swept > 0 {
		slog.InfoContext(ctx, "Pruned inactive groups",
			"groups", n,
			"cache_entries", swept,
			"cutoff", cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// Run prunes once immediately and then every interval until ctx is done.
// A failed pass is logged and retried on the next tick.
func (p *Pruner) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting group pruner", "ttl", p.ttl, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.PruneOnce(ctx); err != nil {
			slog.ErrorContext(ctx, "Prune pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping group pruner", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}
