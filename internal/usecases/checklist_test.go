package usecases_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"fundguard.backend/internal/domain/entities"
	"fundguard.backend/internal/usecases"
)

func prizeBoundEntry() *entities.FundLedgerEntry {
	deliveryID := uuid.New()
	return &entities.FundLedgerEntry{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		DeliveryID: &deliveryID,
		SourceType: entities.FundSourcePrizeCashEquivalent,
		Amount:     "250.00",
		Currency:   "USD",
		Status:     entities.LedgerStatusPendingVerification,
	}
}

func TestEvaluateChecklist_TruthTable(t *testing.T) {
	entry := prizeBoundEntry()

	// Every combination of the five flags; approval requires all of them.
	for i := 0; i < 32; i++ {
		verified := i&1 != 0
		causeOK := i&2 != 0
		delivered := i&4 != 0
		evidence := i&8 != 0
		fraudOK := i&16 != 0

		name := fmt.Sprintf("v=%t_c=%t_d=%t_e=%t_f=%t", verified, causeOK, delivered, evidence, fraudOK)
		t.Run(name, func(t *testing.T) {
			causeFact := &entities.CauseFact{IsActive: causeOK, IsVerified: causeOK}
			deliveryFact := &usecases.DeliveryFact{Delivered: delivered, EvidenceConfirmed: evidence}

			checklist := usecases.EvaluateChecklist(entry, verified, causeFact, deliveryFact, usecases.FraudFact{Passed: fraudOK})

			wantPass := verified && causeOK && delivered && evidence && fraudOK
			assert.Equal(t, wantPass, checklist.AllPassed())
			if !wantPass {
				assert.NotEmpty(t, checklist.Missing())
			} else {
				assert.Empty(t, checklist.Missing())
			}
		})
	}
}

func TestEvaluateChecklist_NonPrizeBoundSkipsDeliveryGate(t *testing.T) {
	entry := &entities.FundLedgerEntry{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		SourceType: entities.FundSourceDonation,
		Amount:     "50.00",
		Currency:   "USD",
	}

	checklist := usecases.EvaluateChecklist(entry, true,
		&entities.CauseFact{IsActive: true, IsVerified: true}, nil, usecases.FraudFact{Passed: true})

	assert.Nil(t, checklist.PrizeDelivered)
	assert.True(t, checklist.EvidenceConfirmed)
	assert.True(t, checklist.AllPassed())
	assert.Empty(t, checklist.Missing())
}

func TestEvaluateChecklist_InactiveCauseBlocks(t *testing.T) {
	entry := prizeBoundEntry()

	checklist := usecases.EvaluateChecklist(entry, true,
		&entities.CauseFact{IsActive: false, IsVerified: true},
		&usecases.DeliveryFact{Delivered: true, EvidenceConfirmed: true},
		usecases.FraudFact{Passed: true})

	assert.False(t, checklist.AllPassed())
	assert.Equal(t, []string{entities.ChecklistItemCauseValidated}, checklist.Missing())
}

func TestEvaluateChecklist_MissingOrderIsStable(t *testing.T) {
	entry := prizeBoundEntry()

	checklist := usecases.EvaluateChecklist(entry, false, &entities.CauseFact{},
		&usecases.DeliveryFact{}, usecases.FraudFact{})

	assert.Equal(t, []string{
		entities.ChecklistItemUserVerified,
		entities.ChecklistItemCauseValidated,
		entities.ChecklistItemPrizeDelivered,
		entities.ChecklistItemEvidenceConfirmed,
		entities.ChecklistItemFraudCheckPassed,
	}, checklist.Missing())
}
