package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/infrastructure/models"
)

// VerificationRepository implements KYC session data operations
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create persists a new verification session
func (r *VerificationRepository) Create(ctx context.Context, session *entities.VerificationSession) error {
	m := r.toModel(session)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	session.ID = m.ID
	return nil
}

// GetByID gets a verification session by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationSession, error) {
	var m models.VerificationSession
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetCurrentByUserID returns the most recent session for a user
func (r *VerificationRepository) GetCurrentByUserID(ctx context.Context, userID uuid.UUID) (*entities.VerificationSession, error) {
	var m models.VerificationSession
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update persists review decisions on a session
func (r *VerificationRepository) Update(ctx context.Context, session *entities.VerificationSession) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.VerificationSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"status":      string(session.Status),
			"level":       string(session.Level),
			"reviewed_by": session.ReviewedBy,
			"reviewed_at": session.ReviewedAt,
			"expires_at":  session.ExpiresAt,
			"updated_at":  session.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *VerificationRepository) toModel(s *entities.VerificationSession) *models.VerificationSession {
	return &models.VerificationSession{
		ID:          s.ID,
		UserID:      s.UserID,
		Level:       string(s.Level),
		Status:      string(s.Status),
		DocumentRef: s.DocumentRef.Ptr(),
		SelfieRef:   s.SelfieRef.Ptr(),
		ReviewedBy:  s.ReviewedBy,
		ReviewedAt:  s.ReviewedAt,
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *VerificationRepository) toEntity(m *models.VerificationSession) *entities.VerificationSession {
	return &entities.VerificationSession{
		ID:          m.ID,
		UserID:      m.UserID,
		Level:       entities.VerificationLevel(m.Level),
		Status:      entities.VerificationStatus(m.Status),
		DocumentRef: null.StringFromPtr(m.DocumentRef),
		SelfieRef:   null.StringFromPtr(m.SelfieRef),
		ReviewedBy:  m.ReviewedBy,
		ReviewedAt:  m.ReviewedAt,
		ExpiresAt:   m.ExpiresAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
