package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aio-chat/internal/retry"
	"aio-chat/internal/store"
)

// Type enumerates session lifecycle events.
type Type string

const (
	TypeSessionCreated Type = "session.created"
	TypeSessionUpdated Type = "session.updated"
	TypeSessionDeleted Type = "session.deleted"
)

// Event announces a change to a session so other clients can refresh.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Type      Type           `json:"type"`
	SessionID string         `json:"sessionId"`
	Session   *store.Session `json:"session,omitempty"`
	At        time.Time      `json:"at"`
}

// New builds an event for s. A nil session is allowed for deletions.
func New(t Type, sessionID string, s *store.Session) Event {
	return Event{
		ID:        uuid.New(),
		Type:      t,
		SessionID: sessionID,
		Session:   s,
		At:        time.Now().UTC(),
	}
}

type Handler func(context.Context, Event)

// Bus fans session events out to every subscriber.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe delivers events to handler until ctx is done.
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}

// PublishWithRetry attempts to publish with retries and exponential backoff.
func PublishWithRetry(ctx context.Context, bus Bus, event Event, attempts int, base time.Duration) error {
	return retry.Do(ctx, attempts, base, func(ctx context.Context) error {
		return bus.Publish(ctx, event)
	})
}
