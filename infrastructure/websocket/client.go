package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vendora/realtime/application/usecases/chat"
	"github.com/vendora/realtime/domain/model"
	"go.uber.org/zap"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 32768 // 32KB
)

// Client is one live websocket connection. It implements chat.Session.
type Client struct {
	conn     *websocket.Conn
	identity model.Identity
	send     chan *chat.Event
	logger   *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
	mu        sync.Mutex
}

func NewClient(conn *websocket.Conn, identity model.Identity, logger *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		identity: identity,
		send:     make(chan *chat.Event, 64),
		logger:   logger,
		closed:   make(chan struct{}),
	}
}

func (c *Client) Identity() model.Identity {
	return c.identity
}

// Deliver hands an event to this connection without blocking the caller. A
// consumer that cannot keep up loses events rather than stalling the room.
func (c *Client) Deliver(event *chat.Event) {
	if c.IsClosed() {
		return
	}
	select {
	case c.send <- event:
	default:
		c.logger.Warn("client buffer full, dropping event",
			zap.String("userID", c.identity.UserID),
			zap.String("event", event.Name),
		)
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		_ = c.conn.Close()
		c.mu.Unlock()
		close(c.send)
	})
}

func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// ReadPump consumes inbound frames and dispatches them until the connection
// drops. Each connection dispatches in its own goroutine, so a slow lookup or
// write delays only this connection.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister() <- c
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.closed:
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws read error",
					zap.String("userID", c.identity.UserID),
					zap.Error(err),
				)
			}
			return
		}

		if len(raw) == 0 {
			continue
		}
		if len(raw) > maxMessageSize {
			c.logger.Warn("inbound frame too large",
				zap.String("userID", c.identity.UserID),
				zap.Int("bytes", len(raw)),
			)
			continue
		}

		hub.Dispatch(c, raw)
	}
}

// WritePump flushes outbound events and keeps the connection alive with
// periodic pings.
func (c *Client) WritePump() {
	defer c.Close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.mu.Lock()
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}

			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteJSON(event)
			c.mu.Unlock()

			if err != nil {
				c.logger.Warn("ws write error",
					zap.String("userID", c.identity.UserID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-c.closed:
			return
		}
	}
}
