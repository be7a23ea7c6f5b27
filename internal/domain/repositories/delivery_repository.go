package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// DeliveryRepository defines prize delivery data operations
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entities.PrizeDelivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PrizeDelivery, error)
	ListByStatus(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.PrizeDelivery, int, error)
	Stats(ctx context.Context) (*entities.DeliveryStats, error)
	// UpdateStatusIf applies the field updates only while the row is still in
	// expected status.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entities.DeliveryStatus, updates map[string]interface{}) error
}
