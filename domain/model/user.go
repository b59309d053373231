package model

import "time"

type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"role"`
	TenantID  *string   `json:"tenantId" gorm:"type:uuid;index"`
	CreatedAt time.Time `json:"createdAt"`
}
