package entities

import (
	"time"

	"github.com/google/uuid"
)

// Cause represents a beneficiary organization raffle proceeds may be
// earmarked for. Consumed here read-only as a validity fact.
type Cause struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"isActive"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"-"`
}

// CauseFact is the cause module's published validity fact
type CauseFact struct {
	CauseID    uuid.UUID `json:"causeId"`
	IsActive   bool      `json:"isActive"`
	IsVerified bool      `json:"isVerified"`
}

// Valid reports whether the cause may receive money.
func (f CauseFact) Valid() bool {
	return f.IsActive && f.IsVerified
}
