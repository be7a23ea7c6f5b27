package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// UserRepository defines the minimal account lookups this service needs
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
