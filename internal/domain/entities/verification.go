package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VerificationLevel represents the KYC level of a session
type VerificationLevel string

const (
	VerificationLevel1 VerificationLevel = "LEVEL_1"
	VerificationLevel2 VerificationLevel = "LEVEL_2"
)

// VerificationStatus represents the state of a KYC attempt
type VerificationStatus string

const (
	VerificationStatusNotVerified VerificationStatus = "NOT_VERIFIED"
	VerificationStatusPending     VerificationStatus = "PENDING"
	VerificationStatusVerified    VerificationStatus = "VERIFIED"
	VerificationStatusRejected    VerificationStatus = "REJECTED"
)

// VerificationSession tracks a user's KYC attempt
type VerificationSession struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"userId"`
	Level       VerificationLevel  `json:"level"`
	Status      VerificationStatus `json:"status"`
	DocumentRef null.String        `json:"documentRef,omitempty"`
	SelfieRef   null.String        `json:"selfieRef,omitempty"`
	ReviewedBy  *uuid.UUID         `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewedAt,omitempty"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// IsActive reports whether the session currently certifies the user.
func (s *VerificationSession) IsActive(now time.Time) bool {
	if s.Status != VerificationStatusVerified {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// SubmitVerificationInput carries the user's KYC documents
type SubmitVerificationInput struct {
	Level       VerificationLevel `json:"level" binding:"required"`
	DocumentRef string            `json:"documentRef" binding:"required"`
	SelfieRef   string            `json:"selfieRef"`
}

// VerificationFact is the identity gate's published fact for one user
type VerificationFact struct {
	UserID    uuid.UUID          `json:"userId"`
	Status    VerificationStatus `json:"status"`
	Level     VerificationLevel  `json:"level"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
}
