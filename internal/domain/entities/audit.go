package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntityType names the entity family an audit row belongs to
type AuditEntityType string

const (
	AuditEntityLedger   AuditEntityType = "LEDGER_ENTRY"
	AuditEntityDelivery AuditEntityType = "PRIZE_DELIVERY"
)

// ActorType identifies who drove a transition
type ActorType string

const (
	ActorTypeUser   ActorType = "USER"
	ActorTypeAdmin  ActorType = "ADMIN"
	ActorTypeSystem ActorType = "SYSTEM"
)

// AuditEntry is one append-only record of a state transition, or of a refused
// admin-initiated attempt (FromStatus == ToStatus).
type AuditEntry struct {
	ID         uuid.UUID       `json:"id"`
	EntityType AuditEntityType `json:"entityType"`
	EntityID   uuid.UUID       `json:"entityId"`
	FromStatus string          `json:"fromStatus"`
	ToStatus   string          `json:"toStatus"`
	ActorID    uuid.UUID       `json:"actorId"`
	ActorType  ActorType       `json:"actorType"`
	Reason     string          `json:"reason"`
	CreatedAt  time.Time       `json:"createdAt"`
}
