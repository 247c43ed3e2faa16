package main

import (
	"context"
	"log/slog"
	"time"

	"aio-chat/internal/app"
	"aio-chat/internal/events"
)

// sweeper deletes sessions idle for longer than ttl.
type sweeper struct {
	deps     app.Deps
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func newSweeper(deps app.Deps, ttl, interval time.Duration) *sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &sweeper{
		deps:     deps,
		log:      deps.Log.With("component", "sweeper"),
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

func (s *sweeper) Run(ctx context.Context) error {
	s.log.Info("idle session sweeper started", "ttl", s.ttl, "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	ids, err := s.deps.Store.PurgeIdle(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.log.Error("failed to purge idle sessions", "err", err)
		return
	}
	for _, id := range ids {
		publish(ctx, s.deps, events.New(events.TypeSessionDeleted, id, nil))
	}
	if len(ids) > 0 {
		s.log.Info("purged idle sessions", "count", len(ids))
	}
}
