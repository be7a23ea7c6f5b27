package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DeliveryStatus represents prize delivery review status
type DeliveryStatus string

const (
	DeliveryStatusPending           DeliveryStatus = "PENDING"
	DeliveryStatusEvidenceSubmitted DeliveryStatus = "EVIDENCE_SUBMITTED"
	DeliveryStatusUnderReview       DeliveryStatus = "UNDER_REVIEW"
	DeliveryStatusVerified          DeliveryStatus = "VERIFIED"
	DeliveryStatusDisputed          DeliveryStatus = "DISPUTED"
	DeliveryStatusCompleted         DeliveryStatus = "COMPLETED"
)

// MaxEvidenceImages bounds one evidence submission.
const MaxEvidenceImages = 10

// MinDisputeReasonLength is the shortest accepted dispute justification.
const MinDisputeReasonLength = 10

// DeliveryTransitions is the review state machine for prize deliveries.
// DISPUTED can be reopened for another review pass by an administrator.
var DeliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusPending:           {DeliveryStatusEvidenceSubmitted},
	DeliveryStatusEvidenceSubmitted: {DeliveryStatusUnderReview},
	DeliveryStatusUnderReview:       {DeliveryStatusVerified, DeliveryStatusDisputed},
	DeliveryStatusVerified:          {DeliveryStatusCompleted},
	DeliveryStatusDisputed:          {DeliveryStatusUnderReview},
	DeliveryStatusCompleted:         {},
}

// CanTransitionDelivery reports whether a delivery status move is legal.
func CanTransitionDelivery(from, to DeliveryStatus) bool {
	for _, next := range DeliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PrizeDelivery represents one (prize, winner) pairing requiring proven
// fulfillment before any cash-equivalent value can be released.
type PrizeDelivery struct {
	ID             uuid.UUID      `json:"id"`
	RaffleID       uuid.UUID      `json:"raffleId"`
	PrizeID        uuid.UUID      `json:"prizeId"`
	WinnerID       uuid.UUID      `json:"winnerId"`
	PrizeOwnerID   uuid.UUID      `json:"prizeOwnerId"`
	Status         DeliveryStatus `json:"status"`
	EvidenceImages []string       `json:"evidenceImages"`
	WinnerPhone    null.String    `json:"winnerPhone,omitempty"`
	WinnerEmail    null.String    `json:"winnerEmail,omitempty"`
	DeliveredAt    *time.Time     `json:"deliveredAt,omitempty"`
	IsDonated      bool           `json:"isDonated"`
	CashValue      null.String    `json:"cashValue,omitempty"`
	Notes          null.String    `json:"notes,omitempty"`
	VerifiedBy     *uuid.UUID     `json:"verifiedBy,omitempty"`
	VerifiedAt     *time.Time     `json:"verifiedAt,omitempty"`
	MoneyReleased  bool           `json:"moneyReleased"`
	ReleasedAmount null.String    `json:"releasedAmount,omitempty"`
	ReleasedAt     *time.Time     `json:"releasedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// HasEvidence reports whether at least one evidence image is on record.
func (d *PrizeDelivery) HasEvidence() bool {
	return len(d.EvidenceImages) > 0
}

// HasWinnerContact reports whether a winner contact snapshot exists.
func (d *PrizeDelivery) HasWinnerContact() bool {
	return d.WinnerPhone.Valid && d.WinnerPhone.String != "" ||
		d.WinnerEmail.Valid && d.WinnerEmail.String != ""
}

// SubmitEvidenceInput carries the prize owner's delivery proof
type SubmitEvidenceInput struct {
	Images       []string   `json:"images" binding:"required"`
	WinnerPhone  string     `json:"winnerPhone"`
	WinnerEmail  string     `json:"winnerEmail"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

// ReviewDecisionInput carries reviewer notes or a dispute reason
type ReviewDecisionInput struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// MarkMoneyReleasedInput carries the released amount for completion
type MarkMoneyReleasedInput struct {
	Amount string `json:"amount" binding:"required"`
}

// DeliveryStats aggregates delivery counts per status
type DeliveryStats struct {
	Pending           int64 `json:"pending"`
	EvidenceSubmitted int64 `json:"evidenceSubmitted"`
	UnderReview       int64 `json:"underReview"`
	Verified          int64 `json:"verified"`
	Disputed          int64 `json:"disputed"`
	Completed         int64 `json:"completed"`
}
