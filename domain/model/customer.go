package model

import "time"

// Customer is a storefront account. It references the underlying platform
// user that chat messages are attributed to.
type Customer struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	TenantID  string    `json:"tenantId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}
