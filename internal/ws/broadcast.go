package ws

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

// ErrTooManyConnections is returned by AddClient when the connection limit
// is reached.
var ErrTooManyConnections = errors.New("too many websocket connections")

const clientSendBuffer = 64

type client struct {
	conn *websocket.Conn
	b    *Broadcaster
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.b.RemoveClient(c)
			return
		}
	}
}

// Broadcaster fans notifications out to every connected client.
// It implements roundwatch.Notifier.
type Broadcaster struct {
	logger   *slog.Logger
	maxConns int

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewBroadcaster creates a broadcaster. maxConns <= 0 means unlimited.
func NewBroadcaster(logger *slog.Logger, maxConns int) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Broadcaster{
		logger:   logger,
		maxConns: maxConns,
		clients:  make(map[*client]bool),
	}
}

// AddClient registers conn and starts its write pump. initial, if non-nil,
// is queued before any broadcast.
func (b *Broadcaster) AddClient(conn *websocket.Conn, initial *WSMessage) (*client, error) {
	c := &client{
		conn: conn,
		b:    b,
		send: make(chan []byte, clientSendBuffer),
	}

	b.mu.Lock()
	if b.maxConns > 0 && len(b.clients) >= b.maxConns {
		b.mu.Unlock()
		return nil, ErrTooManyConnections
	}
	b.clients[c] = true
	b.mu.Unlock()

	if initial != nil {
		b.sendTo(c, *initial)
	}
	go c.writePump()
	return c, nil
}

// RemoveClient unregisters c and closes its send channel. Safe to call more
// than once.
func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}

// Notify broadcasts n to every client.
func (b *Broadcaster) Notify(n roundwatch.Notification) {
	b.broadcast(notificationMessage(n))
}

// sendTo queues msg for a single client, dropping it if the client is slow.
func (b *Broadcaster) sendTo(c *client, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("ws marshal failed", "type", msg.Type, "error", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("ws marshal failed", "type", msg.Type, "error", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if !b.trySend(c, data) {
			// Client can't keep up, disconnect it
			b.logger.Warn("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

// trySend reports false only when the client's buffer is full.
func (b *Broadcaster) trySend(c *client, data []byte) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.clients[c] {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}
