package models

import "time"

// AuditLog records who did what to which entity. Written fire-and-forget:
// an audit failure never blocks the mutation it describes.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorID    *uint     `gorm:"index" json:"actor_id"`
	Action     string    `gorm:"size:100;not null;index" json:"action"`
	EntityType string    `gorm:"size:100;index" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IP         string    `gorm:"size:45" json:"ip"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
