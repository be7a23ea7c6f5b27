package models

import (
	"time"

	"github.com/google/uuid"
)

type FundLedgerEntry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CauseID        *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryID     *uuid.UUID `gorm:"type:uuid;index"`
	SourceType     string     `gorm:"type:varchar(50);not null;index"`
	SourceRef      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount         string     `gorm:"type:decimal(18,2);not null"`
	Currency       string     `gorm:"type:varchar(10);not null"`
	Status         string     `gorm:"type:varchar(50);not null;index"`
	PreviousStatus *string    `gorm:"type:varchar(50)"`
	HeldReason     *string    `gorm:"type:text"`
	BlockedReason  *string    `gorm:"type:text"`
	RequestNotes   *string    `gorm:"type:text"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	ReleaseTarget  *string `gorm:"type:varchar(255)"`
	ReleasedAt     *time.Time
	TransferRef    *string `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (FundLedgerEntry) TableName() string {
	return "fund_ledger_entries"
}
