package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
)

// Router dispatches a request to the provider that serves its model.
type Router struct {
	log       *slog.Logger
	timeout   time.Duration
	limit     int64
	providers map[string]Client
	slots     map[string]*semaphore.Weighted
}

// NewRouter builds a router; limit caps in-flight calls per provider.
func NewRouter(log *slog.Logger, timeout time.Duration, limit int) *Router {
	if limit <= 0 {
		limit = 1
	}
	return &Router{
		log:       log,
		timeout:   timeout,
		limit:     int64(limit),
		providers: make(map[string]Client),
		slots:     make(map[string]*semaphore.Weighted),
	}
}

// Register binds a provider name to a client. Not safe to call once serving.
func (r *Router) Register(provider string, c Client) {
	name := NormalizeProvider(provider)
	r.providers[name] = c
	r.slots[name] = semaphore.NewWeighted(r.limit)
}

func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	model, ok := Lookup(req.Model)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedModel, req.Model)
	}
	provider := NormalizeProvider(model.Provider)
	client, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, model.Provider)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	slot := r.slots[provider]
	if err := slot.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for %s slot: %w", provider, err)
	}
	defer slot.Release(1)

	start := time.Now()
	out, err := client.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", provider, err)
	}
	r.log.Debug("completion finished", "provider", provider, "model", req.Model, "turns", len(req.Turns), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}
