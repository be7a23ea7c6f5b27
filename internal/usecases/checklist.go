package usecases

import (
	"fundguard.backend/internal/domain/entities"
)

// DeliveryFact is the evidence workflow's published fact for one delivery.
type DeliveryFact struct {
	Delivered         bool
	EvidenceConfirmed bool
}

// FraudFact is the fraud screening outcome for one entry.
type FraudFact struct {
	Passed bool
}

// EvaluateChecklist computes the release readiness snapshot for a ledger
// entry from live facts. deliveryFact is nil when the fund source is not
// prize-bound; a nil fact satisfies both delivery flags. The evaluator never
// mutates state; callers must re-fetch facts inside the same transactional
// boundary as the commit they gate.
func EvaluateChecklist(
	entry *entities.FundLedgerEntry,
	verificationEligible bool,
	causeFact *entities.CauseFact,
	deliveryFact *DeliveryFact,
	fraudFact FraudFact,
) entities.ReleaseChecklist {
	checklist := entities.ReleaseChecklist{
		UserVerified:      verificationEligible,
		CauseValidated:    causeFact != nil && causeFact.Valid(),
		EvidenceConfirmed: true,
		FraudCheckPassed:  fraudFact.Passed,
	}

	if deliveryFact != nil {
		delivered := deliveryFact.Delivered
		checklist.PrizeDelivered = &delivered
		checklist.EvidenceConfirmed = deliveryFact.EvidenceConfirmed
	}

	return checklist
}
