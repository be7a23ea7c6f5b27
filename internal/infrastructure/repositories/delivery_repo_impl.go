package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/infrastructure/models"
)

// DeliveryRepository implements prize delivery data operations
type DeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create persists a new prize delivery record
func (r *DeliveryRepository) Create(ctx context.Context, delivery *entities.PrizeDelivery) error {
	images, err := json.Marshal(delivery.EvidenceImages)
	if err != nil {
		return err
	}
	if delivery.EvidenceImages == nil {
		images = []byte("[]")
	}

	m := &models.PrizeDelivery{
		ID:             delivery.ID,
		RaffleID:       delivery.RaffleID,
		PrizeID:        delivery.PrizeID,
		WinnerID:       delivery.WinnerID,
		PrizeOwnerID:   delivery.PrizeOwnerID,
		Status:         string(delivery.Status),
		EvidenceImages: string(images),
		WinnerPhone:    delivery.WinnerPhone.Ptr(),
		WinnerEmail:    delivery.WinnerEmail.Ptr(),
		DeliveredAt:    delivery.DeliveredAt,
		IsDonated:      delivery.IsDonated,
		CashValue:      delivery.CashValue.Ptr(),
		CreatedAt:      delivery.CreatedAt,
		UpdatedAt:      delivery.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	delivery.ID = m.ID
	return nil
}

// GetByID gets a prize delivery by ID
func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PrizeDelivery, error) {
	var m models.PrizeDelivery
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByStatus returns deliveries in the given status, oldest first
func (r *DeliveryRepository) ListByStatus(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.PrizeDelivery, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PrizeDelivery{}).
		Where("status = ?", string(status)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.PrizeDelivery
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []*entities.PrizeDelivery
	for i := range ms {
		deliveries = append(deliveries, r.toEntity(&ms[i]))
	}
	return deliveries, int(total), nil
}

// Stats aggregates delivery counts per status
func (r *DeliveryRepository) Stats(ctx context.Context) (*entities.DeliveryStats, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.PrizeDelivery{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &entities.DeliveryStats{}
	for _, c := range rows {
		switch entities.DeliveryStatus(c.Status) {
		case entities.DeliveryStatusPending:
			stats.Pending = c.Count
		case entities.DeliveryStatusEvidenceSubmitted:
			stats.EvidenceSubmitted = c.Count
		case entities.DeliveryStatusUnderReview:
			stats.UnderReview = c.Count
		case entities.DeliveryStatusVerified:
			stats.Verified = c.Count
		case entities.DeliveryStatusDisputed:
			stats.Disputed = c.Count
		case entities.DeliveryStatusCompleted:
			stats.Completed = c.Count
		}
	}
	return stats, nil
}

// UpdateStatusIf applies updates only while the row is still in expected status
func (r *DeliveryRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entities.DeliveryStatus, updates map[string]interface{}) error {
	db := GetDB(ctx, r.db)
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := db.WithContext(ctx).Model(&models.PrizeDelivery{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConcurrencyConflict
	}
	return nil
}

func (r *DeliveryRepository) toEntity(m *models.PrizeDelivery) *entities.PrizeDelivery {
	var images []string
	if m.EvidenceImages != "" {
		// Rows predating evidence submission hold the '[]' default.
		_ = json.Unmarshal([]byte(m.EvidenceImages), &images)
	}

	return &entities.PrizeDelivery{
		ID:             m.ID,
		RaffleID:       m.RaffleID,
		PrizeID:        m.PrizeID,
		WinnerID:       m.WinnerID,
		PrizeOwnerID:   m.PrizeOwnerID,
		Status:         entities.DeliveryStatus(m.Status),
		EvidenceImages: images,
		WinnerPhone:    null.StringFromPtr(m.WinnerPhone),
		WinnerEmail:    null.StringFromPtr(m.WinnerEmail),
		DeliveredAt:    m.DeliveredAt,
		IsDonated:      m.IsDonated,
		CashValue:      null.StringFromPtr(m.CashValue),
		Notes:          null.StringFromPtr(m.Notes),
		VerifiedBy:     m.VerifiedBy,
		VerifiedAt:     m.VerifiedAt,
		MoneyReleased:  m.MoneyReleased,
		ReleasedAmount: null.StringFromPtr(m.ReleasedAmount),
		ReleasedAt:     m.ReleasedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
