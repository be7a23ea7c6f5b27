package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
)

func newLedgerEntry(userID uuid.UUID, amount string, status entities.LedgerStatus) *entities.FundLedgerEntry {
	now := time.Now()
	return &entities.FundLedgerEntry{
		ID:         uuid.New(),
		UserID:     userID,
		SourceType: entities.FundSourceDonation,
		SourceRef:  uuid.New(),
		Amount:     amount,
		Currency:   "USD",
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestLedgerRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	entry := newLedgerEntry(userID, "100.00", entities.LedgerStatusGenerated)
	require.NoError(t, repo.Create(ctx, entry))

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.ID, got.ID)
	require.Equal(t, entities.LedgerStatusGenerated, got.Status)
	require.Equal(t, "100.00", got.Amount)
	require.False(t, got.TransferRef.Valid)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestLedgerRepository_UpdateStatusIf_OptimisticGuard(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	entry := newLedgerEntry(uuid.New(), "50.00", entities.LedgerStatusHeld)
	require.NoError(t, repo.Create(ctx, entry))

	err := repo.UpdateStatusIf(ctx, entry.ID, entities.LedgerStatusHeld, map[string]interface{}{
		"status":          string(entities.LedgerStatusPendingVerification),
		"previous_status": string(entities.LedgerStatusHeld),
	})
	require.NoError(t, err)

	// The row moved; the same expected-status update must now refuse.
	err = repo.UpdateStatusIf(ctx, entry.ID, entities.LedgerStatusHeld, map[string]interface{}{
		"status": string(entities.LedgerStatusPendingVerification),
	})
	require.ErrorIs(t, err, domainerrors.ErrConcurrencyConflict)

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entities.LedgerStatusPendingVerification, got.Status)
	require.Equal(t, string(entities.LedgerStatusHeld), got.PreviousStatus.String)
}

func TestLedgerRepository_GetByUserID_Pagination(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "10.00", entities.LedgerStatusHeld)))
	}
	require.NoError(t, repo.Create(ctx, newLedgerEntry(uuid.New(), "10.00", entities.LedgerStatusHeld)))

	entries, total, err := repo.GetByUserID(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, entries, 2)
}

func TestLedgerRepository_ListByStatus(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newLedgerEntry(uuid.New(), "10.00", entities.LedgerStatusGenerated)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(uuid.New(), "10.00", entities.LedgerStatusHeld)))

	stuck, err := repo.ListByStatus(ctx, entities.LedgerStatusGenerated, 100)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	require.Equal(t, entities.LedgerStatusGenerated, stuck[0].Status)
}

func TestLedgerRepository_BalanceByStatus(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "10.00", entities.LedgerStatusHeld)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "15.00", entities.LedgerStatusHeld)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "40.00", entities.LedgerStatusReleased)))

	balances, err := repo.BalanceByStatus(ctx, userID)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	byStatus := map[entities.LedgerStatus]*entities.BalanceByStatus{}
	for _, b := range balances {
		byStatus[b.Status] = b
	}
	require.EqualValues(t, 2, byStatus[entities.LedgerStatusHeld].Count)
	require.EqualValues(t, 1, byStatus[entities.LedgerStatusReleased].Count)
}

func TestLedgerRepository_SumRequestedAmount(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	// HELD does not count toward the cumulative requested amount.
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "500.00", entities.LedgerStatusHeld)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "100.00", entities.LedgerStatusPendingVerification)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "200.00", entities.LedgerStatusApproved)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(userID, "300.00", entities.LedgerStatusReleased)))

	total, err := repo.SumRequestedAmount(ctx, userID)
	require.NoError(t, err)
	require.InDelta(t, 600.0, total, 0.001)
}

func TestLedgerRepository_TransferRefUnique(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	first := newLedgerEntry(uuid.New(), "10.00", entities.LedgerStatusApproved)
	second := newLedgerEntry(uuid.New(), "10.00", entities.LedgerStatusApproved)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.UpdateStatusIf(ctx, first.ID, entities.LedgerStatusApproved, map[string]interface{}{
		"status":       string(entities.LedgerStatusReleased),
		"transfer_ref": "TX-1",
	}))

	err := repo.UpdateStatusIf(ctx, second.ID, entities.LedgerStatusApproved, map[string]interface{}{
		"status":       string(entities.LedgerStatusReleased),
		"transfer_ref": "TX-1",
	})
	require.Error(t, err)
}
