package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/infrastructure/models"
)

// CauseRepository implements cause fact lookups. gorm.DeletedAt on the model
// keeps soft-deleted causes out of every query.
type CauseRepository struct {
	db *gorm.DB
}

// NewCauseRepository creates a new cause repository
func NewCauseRepository(db *gorm.DB) *CauseRepository {
	return &CauseRepository{db: db}
}

// GetFact returns the validity fact for a cause
func (r *CauseRepository) GetFact(ctx context.Context, causeID uuid.UUID) (*entities.CauseFact, error) {
	cause, err := r.GetByID(ctx, causeID)
	if err != nil {
		return nil, err
	}
	return &entities.CauseFact{
		CauseID:    cause.ID,
		IsActive:   cause.IsActive,
		IsVerified: cause.IsVerified,
	}, nil
}

// GetByID gets a cause by ID
func (r *CauseRepository) GetByID(ctx context.Context, causeID uuid.UUID) (*entities.Cause, error) {
	var m models.Cause
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", causeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		deletedAt = &t
	}
	return &entities.Cause{
		ID:         m.ID,
		Name:       m.Name,
		IsActive:   m.IsActive,
		IsVerified: m.IsVerified,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  deletedAt,
	}, nil
}
