package websocket

import "encoding/json"

// Inbound event names.
const (
	EventJoinTenant = "join-tenant"
	EventMessage    = "message"
	EventTyping     = "typing"
)

// InboundEvent is the wire envelope clients send.
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinTenantPayload struct {
	TenantSlug string `json:"tenantSlug"`
}

type MessagePayload struct {
	Text       string `json:"text"`
	TenantID   string `json:"tenantId"`
	TenantSlug string `json:"tenantSlug"`
	CustomerID string `json:"customerId"`
}

type TypingPayload struct {
	TenantID string `json:"tenantId"`
	IsTyping bool   `json:"isTyping"`
}
