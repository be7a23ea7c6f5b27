package usecases

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/domain/repositories"
	"fundguard.backend/pkg/utils"
)

// VerificationUsecase is the identity verification gate. It owns KYC sessions
// and publishes the release-eligibility fact the custody ledger consumes.
type VerificationUsecase struct {
	verificationRepo repositories.VerificationRepository
	ledgerRepo       repositories.LedgerRepository
	level2Threshold  float64
	sessionExpiry    time.Duration
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	verificationRepo repositories.VerificationRepository,
	ledgerRepo repositories.LedgerRepository,
	level2Threshold float64,
	sessionExpiry time.Duration,
) *VerificationUsecase {
	return &VerificationUsecase{
		verificationRepo: verificationRepo,
		ledgerRepo:       ledgerRepo,
		level2Threshold:  level2Threshold,
		sessionExpiry:    sessionExpiry,
	}
}

// RequiredLevel returns the KYC level a cumulative requested amount demands.
func (u *VerificationUsecase) RequiredLevel(cumulativeAmount float64) entities.VerificationLevel {
	if cumulativeAmount >= u.level2Threshold {
		return entities.VerificationLevel2
	}
	return entities.VerificationLevel1
}

// IsReleaseEligible answers "is this user allowed to receive money of amount
// X": current session VERIFIED, unexpired, and at the level the cumulative
// requested amount (including this one) demands.
func (u *VerificationUsecase) IsReleaseEligible(ctx context.Context, userID uuid.UUID, amount float64) (bool, error) {
	session, err := u.verificationRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	if !session.IsActive(time.Now()) {
		return false, nil
	}

	cumulative, err := u.ledgerRepo.SumRequestedAmount(ctx, userID)
	if err != nil {
		return false, err
	}

	required := u.RequiredLevel(cumulative + amount)
	if required == entities.VerificationLevel2 && session.Level != entities.VerificationLevel2 {
		return false, nil
	}
	return true, nil
}

// CurrentLevel returns the user's verified KYC level, or NOT_VERIFIED status
// facts when no active session exists.
func (u *VerificationUsecase) CurrentLevel(ctx context.Context, userID uuid.UUID) (*entities.VerificationFact, error) {
	session, err := u.verificationRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return &entities.VerificationFact{
				UserID: userID,
				Status: entities.VerificationStatusNotVerified,
				Level:  entities.VerificationLevel1,
			}, nil
		}
		return nil, err
	}

	return &entities.VerificationFact{
		UserID:    session.UserID,
		Status:    session.Status,
		Level:     session.Level,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// SubmitDocuments opens a PENDING session for the user. A user with a PENDING
// session cannot open another one.
func (u *VerificationUsecase) SubmitDocuments(ctx context.Context, userID uuid.UUID, input *entities.SubmitVerificationInput) (*entities.VerificationSession, error) {
	if input.DocumentRef == "" {
		return nil, domainerrors.BadRequest("documentRef is required")
	}
	if input.Level != entities.VerificationLevel1 && input.Level != entities.VerificationLevel2 {
		return nil, domainerrors.BadRequest("unknown verification level")
	}
	if input.Level == entities.VerificationLevel2 && input.SelfieRef == "" {
		return nil, domainerrors.BadRequest("selfieRef is required for LEVEL_2")
	}

	current, err := u.verificationRepo.GetCurrentByUserID(ctx, userID)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if current != nil && current.Status == entities.VerificationStatusPending {
		return nil, domainerrors.Conflict("a verification attempt is already pending")
	}

	now := time.Now()
	session := &entities.VerificationSession{
		ID:          utils.GenerateUUIDv7(),
		UserID:      userID,
		Level:       input.Level,
		Status:      entities.VerificationStatusPending,
		DocumentRef: null.StringFrom(input.DocumentRef),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.SelfieRef != "" {
		session.SelfieRef = null.StringFrom(input.SelfieRef)
	}

	if err := u.verificationRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Review records the admin decision on a pending session. Approval stamps the
// expiry from which the eligibility fact decays.
func (u *VerificationUsecase) Review(ctx context.Context, sessionID, reviewerID uuid.UUID, approve bool) (*entities.VerificationSession, error) {
	session, err := u.verificationRepo.GetByID(ctx, sessionID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("verification session not found")
		}
		return nil, err
	}

	if session.Status != entities.VerificationStatusPending {
		return nil, domainerrors.InvalidState(
			"session is "+string(session.Status)+", expected PENDING",
			[]string{string(entities.VerificationStatusPending)},
		)
	}

	now := time.Now()
	session.ReviewedBy = &reviewerID
	session.ReviewedAt = &now
	session.UpdatedAt = now
	if approve {
		session.Status = entities.VerificationStatusVerified
		expires := now.Add(u.sessionExpiry)
		session.ExpiresAt = &expires
	} else {
		session.Status = entities.VerificationStatusRejected
	}

	if err := u.verificationRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func parseAmount(amount string) float64 {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return v
}
