package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LedgerStatus represents custody status of a ledger entry
type LedgerStatus string

const (
	LedgerStatusGenerated           LedgerStatus = "GENERATED"
	LedgerStatusHeld                LedgerStatus = "HELD"
	LedgerStatusPendingVerification LedgerStatus = "PENDING_VERIFICATION"
	LedgerStatusApproved            LedgerStatus = "APPROVED"
	LedgerStatusReleased            LedgerStatus = "RELEASED"
	LedgerStatusBlocked             LedgerStatus = "BLOCKED"
)

// FundSourceType represents the financial event that generated the entry
type FundSourceType string

const (
	FundSourceDonation           FundSourceType = "DONATION"
	FundSourceRaffleProceeds     FundSourceType = "RAFFLE_PROCEEDS"
	FundSourcePrizeCashEquivalent FundSourceType = "PRIZE_CASH_EQUIVALENT"
	FundSourceCauseShare         FundSourceType = "CAUSE_SHARE"
)

// LedgerTransitions is the authoritative custody state machine. Both the
// transition check and the per-action permission checks read this map, so the
// DAG lives in exactly one place.
var LedgerTransitions = map[LedgerStatus][]LedgerStatus{
	LedgerStatusGenerated:           {LedgerStatusHeld},
	LedgerStatusHeld:                {LedgerStatusPendingVerification, LedgerStatusBlocked},
	LedgerStatusPendingVerification: {LedgerStatusApproved, LedgerStatusBlocked},
	LedgerStatusApproved:            {LedgerStatusReleased, LedgerStatusBlocked},
	LedgerStatusReleased:            {},
	LedgerStatusBlocked:             {LedgerStatusPendingVerification},
}

// CanTransition reports whether moving from one custody status to another is
// legal under the DAG.
func CanTransition(from, to LedgerStatus) bool {
	for _, next := range LedgerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal next statuses from the given status.
func NextStatuses(from LedgerStatus) []LedgerStatus {
	return LedgerTransitions[from]
}

// IsTerminal reports whether no further transition is possible.
func (s LedgerStatus) IsTerminal() bool {
	return len(LedgerTransitions[s]) == 0
}

// FundLedgerEntry represents one custodied unit of money
type FundLedgerEntry struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"userId"`
	CauseID        *uuid.UUID     `json:"causeId,omitempty"`
	DeliveryID     *uuid.UUID     `json:"deliveryId,omitempty"`
	SourceType     FundSourceType `json:"sourceType"`
	SourceRef      uuid.UUID      `json:"sourceRef"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	Status         LedgerStatus   `json:"status"`
	PreviousStatus null.String    `json:"previousStatus,omitempty"`
	HeldReason     null.String    `json:"heldReason,omitempty"`
	BlockedReason  null.String    `json:"blockedReason,omitempty"`
	RequestNotes   null.String    `json:"requestNotes,omitempty"`
	ApprovedBy     *uuid.UUID     `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty"`
	ReleaseTarget  null.String    `json:"releaseTarget,omitempty"`
	ReleasedAt     *time.Time     `json:"releasedAt,omitempty"`
	TransferRef    null.String    `json:"transferRef,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsPrizeBound reports whether release requires delivery evidence.
func (e *FundLedgerEntry) IsPrizeBound() bool {
	return e.SourceType == FundSourcePrizeCashEquivalent
}

// CreateLedgerEntryInput represents input for recording a fund-generating event
type CreateLedgerEntryInput struct {
	UserID     uuid.UUID      `json:"userId" binding:"required"`
	CauseID    *uuid.UUID     `json:"causeId,omitempty"`
	DeliveryID *uuid.UUID     `json:"deliveryId,omitempty"`
	SourceType FundSourceType `json:"sourceType" binding:"required"`
	SourceRef  uuid.UUID      `json:"sourceRef" binding:"required"`
	Amount     string         `json:"amount" binding:"required"`
	Currency   string         `json:"currency" binding:"required"`
}

// RequestReleaseInput carries the owner's release request
type RequestReleaseInput struct {
	Notes string `json:"notes"`
}

// ReleaseInput carries the admin release decision
type ReleaseInput struct {
	TransferRef   string `json:"transferRef" binding:"required"`
	ReleaseTarget string `json:"releaseTarget"`
}

// BlockInput carries an administrative freeze
type BlockInput struct {
	Reason string `json:"reason" binding:"required"`
}

// BalanceByStatus aggregates a user's custodied amounts per status
type BalanceByStatus struct {
	Status LedgerStatus `json:"status"`
	Count  int64        `json:"count"`
	Total  string       `json:"total"`
}

// ReleaseRequirements reports what still gates a release for an entry
type ReleaseRequirements struct {
	EntryID   uuid.UUID        `json:"entryId"`
	Status    LedgerStatus     `json:"status"`
	Checklist ReleaseChecklist `json:"checklist"`
	Missing   []string         `json:"missing"`
}
