package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
)

func newSession(userID uuid.UUID, status entities.VerificationStatus, createdAt time.Time) *entities.VerificationSession {
	return &entities.VerificationSession{
		ID:          uuid.New(),
		UserID:      userID,
		Level:       entities.VerificationLevel1,
		Status:      status,
		DocumentRef: null.StringFrom("doc/id-front.jpg"),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestVerificationRepository_GetCurrentByUserID(t *testing.T) {
	db := newTestDB(t)
	createVerificationTable(t, db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	older := newSession(userID, entities.VerificationStatusRejected, time.Now().Add(-time.Hour))
	current := newSession(userID, entities.VerificationStatusPending, time.Now())
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, current))
	require.NoError(t, repo.Create(ctx, newSession(uuid.New(), entities.VerificationStatusVerified, time.Now())))

	got, err := repo.GetCurrentByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, current.ID, got.ID)
	require.Equal(t, entities.VerificationStatusPending, got.Status)

	_, err = repo.GetCurrentByUserID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationRepository_UpdateReviewDecision(t *testing.T) {
	db := newTestDB(t)
	createVerificationTable(t, db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	session := newSession(uuid.New(), entities.VerificationStatusPending, time.Now())
	require.NoError(t, repo.Create(ctx, session))

	reviewer := uuid.New()
	now := time.Now()
	expires := now.AddDate(1, 0, 0)
	session.Status = entities.VerificationStatusVerified
	session.ReviewedBy = &reviewer
	session.ReviewedAt = &now
	session.ExpiresAt = &expires
	session.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationStatusVerified, got.Status)
	require.NotNil(t, got.ReviewedBy)
	require.Equal(t, reviewer, *got.ReviewedBy)
	require.NotNil(t, got.ExpiresAt)
	require.True(t, got.IsActive(now))
}

func TestVerificationRepository_UpdateMissingSession(t *testing.T) {
	db := newTestDB(t)
	createVerificationTable(t, db)
	repo := NewVerificationRepository(db)

	session := newSession(uuid.New(), entities.VerificationStatusVerified, time.Now())
	err := repo.Update(context.Background(), session)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
