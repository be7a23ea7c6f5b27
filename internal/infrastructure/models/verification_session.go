package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Level       string    `gorm:"type:varchar(20);not null"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	DocumentRef *string   `gorm:"type:varchar(512)"`
	SelfieRef   *string   `gorm:"type:varchar(512)"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (VerificationSession) TableName() string {
	return "verification_sessions"
}
