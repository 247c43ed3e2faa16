package main

import (
	"context"
	"time"

	"aio-chat/internal/app"
	"aio-chat/internal/events"
)

const (
	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
)

// publish announces a session change. Failures are logged, never returned.
func publish(ctx context.Context, deps app.Deps, event events.Event) {
	if deps.Events == nil {
		return
	}
	if err := events.PublishWithRetry(ctx, deps.Events, event, publishAttempts, publishBackoff); err != nil {
		deps.Log.Warn("failed to publish session event", "type", event.Type, "session_id", event.SessionID, "err", err)
	}
}
