package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
)

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	createAuditTable(t, db)
	uow := NewUnitOfWork(db)
	ledgerRepo := NewLedgerRepository(db)
	auditRepo := NewAuditRepository(db)

	entry := newLedgerEntry(uuid.New(), "75.00", entities.LedgerStatusGenerated)
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		if err := ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}
		return auditRepo.Append(ctx, &entities.AuditEntry{
			ID:         uuid.New(),
			EntityType: entities.AuditEntityLedger,
			EntityID:   entry.ID,
			FromStatus: string(entities.LedgerStatusGenerated),
			ToStatus:   string(entities.LedgerStatusGenerated),
			ActorID:    entry.UserID,
			ActorType:  entities.ActorTypeSystem,
			Reason:     "entry generated",
			CreatedAt:  entry.CreatedAt,
		})
	})
	require.NoError(t, err)

	got, err := ledgerRepo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.ID, got.ID)

	history, err := auditRepo.GetByEntityID(context.Background(), entities.AuditEntityLedger, entry.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	createLedgerTable(t, db)
	uow := NewUnitOfWork(db)
	ledgerRepo := NewLedgerRepository(db)

	entry := newLedgerEntry(uuid.New(), "75.00", entities.LedgerStatusGenerated)
	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		if err := ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = ledgerRepo.GetByID(context.Background(), entry.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
