package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cause struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name       string    `gorm:"type:varchar(255);not null"`
	IsActive   bool      `gorm:"not null;default:false"`
	IsVerified bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Cause) TableName() string {
	return "causes"
}
