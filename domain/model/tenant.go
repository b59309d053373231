package model

import "time"

// Tenant is an isolated store account. The slug is the stable external key:
// broadcast rooms are keyed by it so the realtime layer and the REST layer
// agree on naming even if internal ids are regenerated.
type Tenant struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Status    string    `json:"status" gorm:"default:'active'"`
	CreatedAt time.Time `json:"createdAt"`
}
