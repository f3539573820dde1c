package transport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// DefaultWriteWait bounds a single write to a client.
const DefaultWriteWait = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Client struct {
	ID     string
	UserID uint
	conn   Conn
	connMu sync.Mutex
}

func (c *Client) send(msg OutgoingMessage, wait time.Duration) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Hub tracks the live connections of this server instance.
type Hub struct {
	clients   map[string]*Client
	clientsMu sync.RWMutex
	writeWait time.Duration
	log       *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		writeWait: DefaultWriteWait,
		log:       log,
	}
}

func (h *Hub) Register(userID uint, conn Conn) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
	}

	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	return client
}

func (h *Hub) Unregister(id string) {
	h.clientsMu.Lock()
	client, ok := h.clients[id]
	delete(h.clients, id)
	h.clientsMu.Unlock()

	if ok {
		client.conn.Close()
	}
}

func (h *Hub) Get(id string) *Client {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	return h.clients[id]
}

func (h *Hub) Count() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	return len(h.clients)
}

func (h *Hub) SendTo(id string, msg OutgoingMessage) error {
	client := h.Get(id)
	if client == nil {
		return nil
	}
	return client.send(msg, h.writeWait)
}

// Broadcast writes msg to every connection in parallel; connections that fail
// or miss the write deadline are dropped.
func (h *Hub) Broadcast(msg OutgoingMessage) {
	h.clientsMu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		all = append(all, c)
	}
	h.clientsMu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range all {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			if err := c.send(msg, h.writeWait); err != nil {
				h.log.Warn("dropping connection after failed send",
					zap.String("conn", c.ID),
					zap.Uint("user", c.UserID),
					zap.Error(err),
				)
				h.Unregister(c.ID)
			}
		}(c)
	}
	wg.Wait()
}

// Publish delivers msg to the local connections.
func (h *Hub) Publish(_ context.Context, msg OutgoingMessage) error {
	h.Broadcast(msg)
	return nil
}
