package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"fundguard.backend/internal/domain/entities"
	"fundguard.backend/internal/infrastructure/models"
)

// AuditRepository implements append-only audit trail operations
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit row. There is deliberately no update or delete.
func (r *AuditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	m := &models.AuditEntry{
		ID:         entry.ID,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		ActorID:    entry.ActorID,
		ActorType:  string(entry.ActorType),
		Reason:     entry.Reason,
		CreatedAt:  entry.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetByEntityID returns the chronological transition history for one entity
func (r *AuditRepository) GetByEntityID(ctx context.Context, entityType entities.AuditEntityType, entityID uuid.UUID) ([]*entities.AuditEntry, error) {
	var ms []models.AuditEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var entries []*entities.AuditEntry
	for _, m := range ms {
		entries = append(entries, &entities.AuditEntry{
			ID:         m.ID,
			EntityType: entities.AuditEntityType(m.EntityType),
			EntityID:   m.EntityID,
			FromStatus: m.FromStatus,
			ToStatus:   m.ToStatus,
			ActorID:    m.ActorID,
			ActorType:  entities.ActorType(m.ActorType),
			Reason:     m.Reason,
			CreatedAt:  m.CreatedAt,
		})
	}
	return entries, nil
}
