package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
	"fundguard.backend/internal/domain/entities"
)

func TestDeliveryTransitions(t *testing.T) {
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusPending, entities.DeliveryStatusEvidenceSubmitted))
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusEvidenceSubmitted, entities.DeliveryStatusUnderReview))
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusUnderReview, entities.DeliveryStatusVerified))
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusUnderReview, entities.DeliveryStatusDisputed))
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusVerified, entities.DeliveryStatusCompleted))

	// DISPUTED reopens back into review, nothing else.
	assert.True(t, entities.CanTransitionDelivery(entities.DeliveryStatusDisputed, entities.DeliveryStatusUnderReview))
	assert.False(t, entities.CanTransitionDelivery(entities.DeliveryStatusDisputed, entities.DeliveryStatusVerified))

	// Evidence cannot be retracted; no way back to PENDING.
	assert.False(t, entities.CanTransitionDelivery(entities.DeliveryStatusEvidenceSubmitted, entities.DeliveryStatusPending))

	// COMPLETED is terminal.
	for _, to := range []entities.DeliveryStatus{
		entities.DeliveryStatusPending,
		entities.DeliveryStatusEvidenceSubmitted,
		entities.DeliveryStatusUnderReview,
		entities.DeliveryStatusVerified,
		entities.DeliveryStatusDisputed,
	} {
		assert.False(t, entities.CanTransitionDelivery(entities.DeliveryStatusCompleted, to))
	}
}

func TestPrizeDelivery_HasEvidence(t *testing.T) {
	d := &entities.PrizeDelivery{}
	assert.False(t, d.HasEvidence())

	d.EvidenceImages = []string{"https://cdn.example/a.jpg"}
	assert.True(t, d.HasEvidence())
}

func TestPrizeDelivery_HasWinnerContact(t *testing.T) {
	d := &entities.PrizeDelivery{}
	assert.False(t, d.HasWinnerContact())

	d.WinnerPhone = null.StringFrom("+15551234567")
	assert.True(t, d.HasWinnerContact())

	d = &entities.PrizeDelivery{WinnerEmail: null.StringFrom("winner@mail.com")}
	assert.True(t, d.HasWinnerContact())
}
