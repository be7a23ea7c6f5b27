package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// CauseRepository exposes cause validity facts. Soft-deleted causes are
// filtered at query time, never physically removed.
type CauseRepository interface {
	GetFact(ctx context.Context, causeID uuid.UUID) (*entities.CauseFact, error)
	GetByID(ctx context.Context, causeID uuid.UUID) (*entities.Cause, error)
}
