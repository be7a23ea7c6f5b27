package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/infrastructure/models"
)

// LedgerRepository implements fund ledger data operations
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create persists a new ledger entry
func (r *LedgerRepository) Create(ctx context.Context, entry *entities.FundLedgerEntry) error {
	m := &models.FundLedgerEntry{
		ID:             entry.ID,
		UserID:         entry.UserID,
		CauseID:        entry.CauseID,
		DeliveryID:     entry.DeliveryID,
		SourceType:     string(entry.SourceType),
		SourceRef:      entry.SourceRef,
		Amount:         entry.Amount,
		Currency:       entry.Currency,
		Status:         string(entry.Status),
		PreviousStatus: entry.PreviousStatus.Ptr(),
		HeldReason:     entry.HeldReason.Ptr(),
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	return nil
}

// GetByID gets a ledger entry by ID
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.FundLedgerEntry, error) {
	var m models.FundLedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets ledger entries for a user with pagination
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.FundLedgerEntry, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.FundLedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.FundLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var entries []*entities.FundLedgerEntry
	for i := range ms {
		entries = append(entries, r.toEntity(&ms[i]))
	}

	return entries, int(total), nil
}

// ListByStatus returns entries currently in the given status, oldest first.
func (r *LedgerRepository) ListByStatus(ctx context.Context, status entities.LedgerStatus, limit int) ([]*entities.FundLedgerEntry, error) {
	var ms []models.FundLedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var entries []*entities.FundLedgerEntry
	for i := range ms {
		entries = append(entries, r.toEntity(&ms[i]))
	}
	return entries, nil
}

// BalanceByStatus aggregates a user's custodied amounts per status
func (r *LedgerRepository) BalanceByStatus(ctx context.Context, userID uuid.UUID) ([]*entities.BalanceByStatus, error) {
	type row struct {
		Status string
		Count  int64
		Total  string
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.FundLedgerEntry{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(CAST(amount AS DECIMAL(18,2))), 0) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var balances []*entities.BalanceByStatus
	for _, b := range rows {
		balances = append(balances, &entities.BalanceByStatus{
			Status: entities.LedgerStatus(b.Status),
			Count:  b.Count,
			Total:  b.Total,
		})
	}
	return balances, nil
}

// SumRequestedAmount returns the cumulative amount the user has moved past HELD
func (r *LedgerRepository) SumRequestedAmount(ctx context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.FundLedgerEntry{}).
		Select("COALESCE(SUM(CAST(amount AS DECIMAL(18,2))), 0)").
		Where("user_id = ? AND status IN ?", userID, []string{
			string(entities.LedgerStatusPendingVerification),
			string(entities.LedgerStatusApproved),
			string(entities.LedgerStatusReleased),
		}).
		Scan(&total).Error
	return total, err
}

// UpdateStatusIf applies updates only while the row is still in expected
// status. RowsAffected == 0 means a concurrent writer moved it first.
func (r *LedgerRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entities.LedgerStatus, updates map[string]interface{}) error {
	db := GetDB(ctx, r.db)
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := db.WithContext(ctx).Model(&models.FundLedgerEntry{}).
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

func (r *LedgerRepository) toEntity(m *models.FundLedgerEntry) *entities.FundLedgerEntry {
	return &entities.FundLedgerEntry{
		ID:             m.ID,
		UserID:         m.UserID,
		CauseID:        m.CauseID,
		DeliveryID:     m.DeliveryID,
		SourceType:     entities.FundSourceType(m.SourceType),
		SourceRef:      m.SourceRef,
		Amount:         m.Amount,
		Currency:       m.Currency,
		Status:         entities.LedgerStatus(m.Status),
		PreviousStatus: null.StringFromPtr(m.PreviousStatus),
		HeldReason:     null.StringFromPtr(m.HeldReason),
		BlockedReason:  null.StringFromPtr(m.BlockedReason),
		RequestNotes:   null.StringFromPtr(m.RequestNotes),
		ApprovedBy:     m.ApprovedBy,
		ApprovedAt:     m.ApprovedAt,
		ReleaseTarget:  null.StringFromPtr(m.ReleaseTarget),
		ReleasedAt:     m.ReleasedAt,
		TransferRef:    null.StringFromPtr(m.TransferRef),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
