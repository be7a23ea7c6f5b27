package models

import (
	"time"

	"github.com/google/uuid"
)

type PrizeDelivery struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RaffleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PrizeID        uuid.UUID `gorm:"type:uuid;not null;index"`
	WinnerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PrizeOwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status         string    `gorm:"type:varchar(50);not null;index"`
	EvidenceImages string    `gorm:"type:jsonb;default:'[]'"`
	WinnerPhone    *string   `gorm:"type:varchar(50)"`
	WinnerEmail    *string   `gorm:"type:varchar(255)"`
	DeliveredAt    *time.Time
	IsDonated      bool    `gorm:"not null;default:false"`
	CashValue      *string `gorm:"type:decimal(18,2)"`
	Notes          *string `gorm:"type:text"`
	VerifiedBy     *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt     *time.Time
	MoneyReleased  bool    `gorm:"not null;default:false"`
	ReleasedAmount *string `gorm:"type:decimal(18,2)"`
	ReleasedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PrizeDelivery) TableName() string {
	return "prize_deliveries"
}
