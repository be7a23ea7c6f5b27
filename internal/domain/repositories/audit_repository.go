package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// AuditRepository defines append-only audit trail operations. There is no
// update or delete; a transition that is not recorded here did not happen.
type AuditRepository interface {
	Append(ctx context.Context, entry *entities.AuditEntry) error
	GetByEntityID(ctx context.Context, entityType entities.AuditEntityType, entityID uuid.UUID) ([]*entities.AuditEntry, error)
}
