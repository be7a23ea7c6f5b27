package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity"`
	FromStatus string    `gorm:"type:varchar(50);not null"`
	ToStatus   string    `gorm:"type:varchar(50);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorType  string    `gorm:"type:varchar(20);not null"`
	Reason     string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
