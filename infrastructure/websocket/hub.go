package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vendora/realtime/application/usecases/chat"
	"github.com/vendora/realtime/infrastructure/logger"
	"github.com/vendora/realtime/infrastructure/metrics"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub owns connection registration and inbound event dispatch. Room state
// lives in the chat use case; the hub only tracks live connections.
type Hub struct {
	chat   chat.ChatUseCase
	logger *logger.Logger

	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	shutdown chan struct{}
	once     sync.Once
}

func NewHub(chatUC chat.ChatUseCase, logger *logger.Logger) *Hub {
	return &Hub{
		chat:       chatUC,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		shutdown:   make(chan struct{}),
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Unregister() chan<- *Client {
	return h.unregister
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down")
			h.Shutdown()
			return

		case <-h.shutdown:
			return

		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl] = struct{}{}
			h.mu.Unlock()

			metrics.ActiveConnections.Inc()
			h.chat.Connect(ctx, cl)

		case cl := <-h.unregister:
			h.mu.Lock()
			_, known := h.clients[cl]
			delete(h.clients, cl)
			h.mu.Unlock()

			if known {
				metrics.ActiveConnections.Dec()
				h.chat.Disconnect(cl)
			}
			cl.Close()
		}
	}
}

// Dispatch routes one inbound frame. It runs on the calling client's read
// goroutine; a disconnect mid-operation does not cancel in-flight work, there
// is simply no socket left to deliver the result to.
func (h *Hub) Dispatch(cl *Client, raw []byte) {
	ctx := context.Background()

	var envelope InboundEvent
	if err := json.Unmarshal(raw, &envelope); err != nil {
		cl.Deliver(chat.NewErrorEvent("malformed event"))
		return
	}

	switch envelope.Event {
	case EventJoinTenant:
		var payload JoinTenantPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			// Older admin clients send the slug as a bare string.
			var slug string
			if err := json.Unmarshal(envelope.Data, &slug); err != nil {
				cl.Deliver(chat.NewErrorEvent("malformed event"))
				return
			}
			payload.TenantSlug = slug
		}
		h.chat.JoinTenantRoom(ctx, cl, payload.TenantSlug)

	case EventMessage:
		var payload MessagePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			cl.Deliver(chat.NewErrorEvent("malformed event"))
			return
		}
		h.chat.SendMessage(ctx, cl, chat.SendMessageInput{
			Text:       payload.Text,
			TenantSlug: payload.TenantSlug,
			CustomerID: payload.CustomerID,
		})

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		h.chat.Typing(ctx, cl, payload.TenantID, payload.IsTyping)

	default:
		h.logger.Warn("unknown inbound event",
			zap.String("event", envelope.Event),
			zap.String("userID", cl.identity.UserID),
		)
	}
}

// Shutdown closes every live connection and stops the run loop.
func (h *Hub) Shutdown() {
	h.once.Do(func() {
		close(h.shutdown)

		h.mu.Lock()
		for cl := range h.clients {
			h.chat.Disconnect(cl)
			cl.Close()
		}
		h.clients = make(map[*Client]struct{})
		h.mu.Unlock()
	})
}
