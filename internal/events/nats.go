package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const subjectPrefix = "chat.sessions."

// NewNATS constructs a bus on top of a NATS connection. Every instance
// subscribes to all session subjects so its websocket clients see changes
// made through other instances.
func NewNATS(log *slog.Logger, nc *nats.Conn) Bus {
	return &natsBus{log: log, nc: nc}
}

type natsBus struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (b *natsBus) Publish(_ context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Type == "" {
		return errors.New("event type required")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.nc.Publish(subjectPrefix+string(event.Type), body)
}

func (b *natsBus) Subscribe(ctx context.Context, handler Handler) error {
	sub, err := b.nc.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		b.handleMessage(ctx, msg, handler)
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

func (b *natsBus) handleMessage(ctx context.Context, msg *nats.Msg, handler Handler) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		b.log.Error("failed to decode event", "subject", msg.Subject, "err", err)
		return
	}
	handler(ctx, event)
}

func (b *natsBus) Close() error {
	return b.nc.Drain()
}
