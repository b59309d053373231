package model

import "time"

// Message is a persisted chat message. SenderID is always a platform user id,
// never a customer id. CustomerID is the customer thread the message belongs
// to and may be nil for unaddressed staff messages.
type Message struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID   string     `json:"tenantId" gorm:"type:uuid;not null;index"`
	CustomerID *string    `json:"customerId" gorm:"type:uuid;index"`
	SenderID   string     `json:"senderId" gorm:"type:uuid;not null"`
	SenderType string     `json:"senderType" gorm:"not null"`
	Text       string     `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReadAt     *time.Time `json:"readAt"`
}
