package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"aio-chat/internal/events"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may lag behind before it is dropped.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes session events to connected browsers.
type Hub struct {
	log     *slog.Logger
	bus     events.Bus
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger, bus events.Bus) *Hub {
	return &Hub{
		log:     log,
		bus:     bus,
		clients: make(map[*client]struct{}),
	}
}

// Run forwards bus events to clients until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	err := h.bus.Subscribe(ctx, func(_ context.Context, e events.Event) {
		h.Broadcast(e)
	})
	h.closeAll()
	return err
}

// ServeHTTP upgrades the request and keeps the connection until the peer leaves.
// Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	defer h.unregister(c)
	go h.writePump(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast queues e for every client without waiting on the network.
// Clients whose queue is full are dropped.
func (h *Hub) Broadcast(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Error("failed to encode event", "type", e.Type, "err", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Debug("dropping slow websocket client")
		h.unregister(c)
	}
}

// writePump is the only writer of c.conn. It exits once c.send is closed.
func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("dropping websocket client", "err", err)
			h.unregister(c)
			for range c.send {
			}
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("websocket connected", "clients", total)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		c.conn.Close()
		h.log.Debug("websocket disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	for c := range clients {
		close(c.send)
	}
	h.mu.Unlock()
	for c := range clients {
		c.conn.Close()
	}
}
