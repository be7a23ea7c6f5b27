package repositories

import (
	"context"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
)

// LedgerRepository defines fund ledger data operations
type LedgerRepository interface {
	Create(ctx context.Context, entry *entities.FundLedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.FundLedgerEntry, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.FundLedgerEntry, int, error)
	ListByStatus(ctx context.Context, status entities.LedgerStatus, limit int) ([]*entities.FundLedgerEntry, error)
	BalanceByStatus(ctx context.Context, userID uuid.UUID) ([]*entities.BalanceByStatus, error)
	// SumRequestedAmount returns the cumulative amount the user has moved past
	// HELD, used by the identity gate for threshold-based level upgrades.
	SumRequestedAmount(ctx context.Context, userID uuid.UUID) (float64, error)
	// UpdateStatusIf applies the field updates only while the row is still in
	// expected status. Returns ErrConcurrencyConflict when another writer got
	// there first.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entities.LedgerStatus, updates map[string]interface{}) error
}
