package realtime

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"jobportal/internal/common"
	"jobportal/internal/domain/chat"
)

type Client struct {
	UserID common.UUID
	Conn   *websocket.Conn
	Send   chan chat.Event

	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks connected websocket clients per user. A user may hold several
// connections (multiple tabs); events are fanned out to all of them.
type Hub struct {
	mu           sync.RWMutex
	clients      map[common.UUID]map[*Client]struct{}
	writeTimeout time.Duration
}

func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Hub{
		clients:      map[common.UUID]map[*Client]struct{}{},
		writeTimeout: writeTimeout,
	}
}

func (h *Hub) AddClient(userID common.UUID, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan chat.Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop(h.writeTimeout)
	go c.keepAliveLoop()

	return c
}

func (h *Hub) RemoveClient(c *Client) {
	c.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

// ClientCount reports how many connections a user currently holds.
func (h *Hub) ClientCount(userID common.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Deliver pushes an event to every connection of the recipient. A full
// send buffer drops the event; the client re-syncs via the unread query.
func (h *Hub) Deliver(ev chat.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ev.RecipientID] {
		select {
		case c.Send <- ev:
		default:
		}
	}
}

// writeLoop drains Send until the client is removed. Send is never closed:
// Deliver may race a removal, and an abandoned buffered channel is just
// garbage collected.
func (c *Client) writeLoop(timeout time.Duration) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), timeout)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
