package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// VerificationRepository defines KYC session data operations
type VerificationRepository interface {
	Create(ctx context.Context, session *entities.VerificationSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationSession, error)
	// GetCurrentByUserID returns the most recent session for a user, or
	// ErrNotFound when the user never attempted verification.
	GetCurrentByUserID(ctx context.Context, userID uuid.UUID) (*entities.VerificationSession, error)
	Update(ctx context.Context, session *entities.VerificationSession) error
}
