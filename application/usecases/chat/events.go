package chat

import (
	"time"

	"github.com/vendora/realtime/domain/model"
)

// Outbound event names.
const (
	EventMessage = "message"
	EventTyping  = "typing"
	EventJoined  = "joined"
	EventError   = "error"
)

// Event is the outbound wire envelope delivered to connections.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type SenderPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

type MessagePayload struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	SenderID   string        `json:"senderId"`
	SenderType string        `json:"senderType"`
	CustomerID *string       `json:"customerId"`
	CreatedAt  string        `json:"createdAt"`
	ReadAt     *string       `json:"readAt"`
	Sender     SenderPayload `json:"sender"`
}

type TypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type JoinedPayload struct {
	Room string `json:"room"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewMessageEvent(m *model.Message, sender SenderPayload) *Event {
	var readAt *string
	if m.ReadAt != nil {
		s := m.ReadAt.UTC().Format(time.RFC3339)
		readAt = &s
	}

	return &Event{
		Name: EventMessage,
		Data: MessagePayload{
			ID:         m.ID,
			Text:       m.Text,
			SenderID:   m.SenderID,
			SenderType: m.SenderType,
			CustomerID: m.CustomerID,
			CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
			ReadAt:     readAt,
			Sender:     sender,
		},
	}
}

func NewTypingEvent(userID string, isTyping bool) *Event {
	return &Event{
		Name: EventTyping,
		Data: TypingPayload{
			UserID:   userID,
			IsTyping: isTyping,
		},
	}
}

func NewJoinedEvent(room string) *Event {
	return &Event{
		Name: EventJoined,
		Data: JoinedPayload{Room: room},
	}
}

func NewErrorEvent(message string) *Event {
	return &Event{
		Name: EventError,
		Data: ErrorPayload{Message: message},
	}
}
