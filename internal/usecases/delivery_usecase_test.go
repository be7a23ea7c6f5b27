package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/usecases"
)

type deliveryHarness struct {
	deliveryRepo *MockDeliveryRepository
	auditRepo    *MockAuditRepository
	uow          *MockUnitOfWork
	uc           *usecases.DeliveryUsecase
}

func newDeliveryHarness() *deliveryHarness {
	h := &deliveryHarness{
		deliveryRepo: new(MockDeliveryRepository),
		auditRepo:    new(MockAuditRepository),
		uow:          new(MockUnitOfWork),
	}
	h.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	h.uc = usecases.NewDeliveryUsecase(h.deliveryRepo, h.auditRepo, h.uow)
	return h
}

func (h *deliveryHarness) trackStatus(delivery *entities.PrizeDelivery) {
	h.deliveryRepo.On("GetByID", mock.Anything, delivery.ID).Return(delivery, nil)
	h.deliveryRepo.On("UpdateStatusIf", mock.Anything, delivery.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			expected := args.Get(2).(entities.DeliveryStatus)
			if delivery.Status != expected {
				return
			}
			updates := args.Get(3).(map[string]interface{})
			delivery.Status = entities.DeliveryStatus(updates["status"].(string))
			if released, ok := updates["money_released"].(bool); ok {
				delivery.MoneyReleased = released
			}
			if amount, ok := updates["released_amount"].(string); ok {
				delivery.ReleasedAmount = null.StringFrom(amount)
			}
		}).Return(nil)
	h.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
}

func pendingDelivery(ownerID uuid.UUID) *entities.PrizeDelivery {
	return &entities.PrizeDelivery{
		ID:           uuid.New(),
		RaffleID:     uuid.New(),
		PrizeID:      uuid.New(),
		WinnerID:     uuid.New(),
		PrizeOwnerID: ownerID,
		Status:       entities.DeliveryStatusPending,
	}
}

func TestDeliveryUsecase_SubmitEvidence_ImageBounds(t *testing.T) {
	h := newDeliveryHarness()
	ownerID := uuid.New()

	makeImages := func(n int) []string {
		images := make([]string, n)
		for i := range images {
			images[i] = fmt.Sprintf("https://cdn.example/evidence-%d.jpg", i)
		}
		return images
	}

	cases := []struct {
		name   string
		count  int
		wantOK bool
	}{
		{"zero images refused", 0, false},
		{"one image accepted", 1, true},
		{"ten images accepted", 10, true},
		{"eleven images refused", 11, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delivery := pendingDelivery(ownerID)
			h.trackStatus(delivery)

			_, err := h.uc.SubmitEvidence(context.Background(), delivery.ID, ownerID, &entities.SubmitEvidenceInput{
				Images:      makeImages(tc.count),
				WinnerPhone: "+15551234567",
			})

			if tc.wantOK {
				assert.NoError(t, err)
				assert.Equal(t, entities.DeliveryStatusEvidenceSubmitted, delivery.Status)
			} else {
				assert.Error(t, err)
				assert.Equal(t, entities.DeliveryStatusPending, delivery.Status)
			}
		})
	}
}

func TestDeliveryUsecase_SubmitEvidence_RequiresWinnerContact(t *testing.T) {
	h := newDeliveryHarness()
	ownerID := uuid.New()
	delivery := pendingDelivery(ownerID)
	h.trackStatus(delivery)

	_, err := h.uc.SubmitEvidence(context.Background(), delivery.ID, ownerID, &entities.SubmitEvidenceInput{
		Images: []string{"https://cdn.example/a.jpg"},
	})

	appErr, ok := err.(*domainerrors.AppError)
	assert.True(t, ok)
	assert.Equal(t, domainerrors.CodeInvalidInput, appErr.Code)
}

func TestDeliveryUsecase_SubmitEvidence_OwnerOnly(t *testing.T) {
	h := newDeliveryHarness()
	delivery := pendingDelivery(uuid.New())
	h.trackStatus(delivery)

	_, err := h.uc.SubmitEvidence(context.Background(), delivery.ID, uuid.New(), &entities.SubmitEvidenceInput{
		Images:      []string{"https://cdn.example/a.jpg"},
		WinnerEmail: "winner@mail.com",
	})

	appErr, ok := err.(*domainerrors.AppError)
	assert.True(t, ok)
	assert.Equal(t, domainerrors.CodeForbidden, appErr.Code)
}

func TestDeliveryUsecase_Dispute_ReasonLength(t *testing.T) {
	h := newDeliveryHarness()
	adminID := uuid.New()

	// 9 characters refused, 10 accepted.
	shortReason := "123456789"
	okReason := "1234567890"

	delivery := pendingDelivery(uuid.New())
	delivery.Status = entities.DeliveryStatusUnderReview
	delivery.EvidenceImages = []string{"https://cdn.example/a.jpg"}
	h.trackStatus(delivery)

	_, err := h.uc.Dispute(context.Background(), delivery.ID, adminID, shortReason)
	assert.Error(t, err)
	assert.Equal(t, entities.DeliveryStatusUnderReview, delivery.Status)

	disputed, err := h.uc.Dispute(context.Background(), delivery.ID, adminID, okReason)
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusDisputed, disputed.Status)
}

func TestDeliveryUsecase_ReopenReview_FromDisputed(t *testing.T) {
	h := newDeliveryHarness()
	adminID := uuid.New()

	delivery := pendingDelivery(uuid.New())
	delivery.Status = entities.DeliveryStatusDisputed
	delivery.EvidenceImages = []string{"https://cdn.example/a.jpg"}
	h.trackStatus(delivery)

	_, err := h.uc.ReopenReview(context.Background(), delivery.ID, adminID, "")
	assert.Error(t, err)

	reopened, err := h.uc.ReopenReview(context.Background(), delivery.ID, adminID, "new photos provided offline")
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusUnderReview, reopened.Status)
}

func TestDeliveryUsecase_Verify_WithoutEvidenceRefused(t *testing.T) {
	h := newDeliveryHarness()

	delivery := pendingDelivery(uuid.New())
	delivery.Status = entities.DeliveryStatusUnderReview
	h.trackStatus(delivery)

	_, err := h.uc.Verify(context.Background(), delivery.ID, uuid.New(), "")

	appErr, ok := err.(*domainerrors.AppError)
	assert.True(t, ok)
	assert.Equal(t, domainerrors.CodeNoEvidence, appErr.Code)
}

func TestDeliveryUsecase_MarkMoneyReleased_RefusalMatrix(t *testing.T) {
	h := newDeliveryHarness()
	adminID := uuid.New()

	cases := []struct {
		name     string
		mutate   func(d *entities.PrizeDelivery)
		wantCode string
	}{
		{
			"no evidence",
			func(d *entities.PrizeDelivery) {
				d.Status = entities.DeliveryStatusVerified
				d.EvidenceImages = nil
			},
			domainerrors.CodeNoEvidence,
		},
		{
			"not verified",
			func(d *entities.PrizeDelivery) {
				d.Status = entities.DeliveryStatusUnderReview
			},
			domainerrors.CodeNotVerified,
		},
		{
			"already released",
			func(d *entities.PrizeDelivery) {
				d.Status = entities.DeliveryStatusVerified
				d.MoneyReleased = true
			},
			domainerrors.CodeAlreadyReleased,
		},
		{
			"donated prize",
			func(d *entities.PrizeDelivery) {
				d.Status = entities.DeliveryStatusVerified
				d.IsDonated = true
			},
			domainerrors.CodeDonatedPrizeNoMoney,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delivery := pendingDelivery(uuid.New())
			delivery.EvidenceImages = []string{"https://cdn.example/a.jpg"}
			tc.mutate(delivery)
			h.trackStatus(delivery)

			_, err := h.uc.MarkMoneyReleased(context.Background(), delivery.ID, adminID, "200.00")

			appErr, ok := err.(*domainerrors.AppError)
			assert.True(t, ok)
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.NotEqual(t, entities.DeliveryStatusCompleted, delivery.Status)
		})
	}
}

func TestDeliveryUsecase_MarkMoneyReleased_Success(t *testing.T) {
	h := newDeliveryHarness()
	adminID := uuid.New()

	delivery := pendingDelivery(uuid.New())
	delivery.Status = entities.DeliveryStatusVerified
	delivery.EvidenceImages = []string{"https://cdn.example/a.jpg"}
	h.trackStatus(delivery)

	completed, err := h.uc.MarkMoneyReleased(context.Background(), delivery.ID, adminID, "200.00")

	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusCompleted, completed.Status)
	assert.True(t, completed.MoneyReleased)
	assert.Equal(t, "200.00", completed.ReleasedAmount.String)
}

func TestDeliveryUsecase_FullEvidenceLifecycle(t *testing.T) {
	h := newDeliveryHarness()
	ownerID := uuid.New()
	adminID := uuid.New()

	delivery := pendingDelivery(ownerID)
	h.trackStatus(delivery)

	_, err := h.uc.SubmitEvidence(context.Background(), delivery.ID, ownerID, &entities.SubmitEvidenceInput{
		Images:      []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"},
		WinnerPhone: "+15551234567",
	})
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusEvidenceSubmitted, delivery.Status)

	_, err = h.uc.StartReview(context.Background(), delivery.ID, adminID)
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusUnderReview, delivery.Status)

	delivery.EvidenceImages = []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}

	_, err = h.uc.Verify(context.Background(), delivery.ID, adminID, "matches the prize listing")
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusVerified, delivery.Status)

	completed, err := h.uc.MarkMoneyReleased(context.Background(), delivery.ID, adminID, "350.00")
	assert.NoError(t, err)
	assert.Equal(t, entities.DeliveryStatusCompleted, completed.Status)
	assert.True(t, completed.MoneyReleased)
}
