package entities

// Checklist item names reported to callers when a release is still gated.
const (
	ChecklistItemUserVerified      = "userVerified"
	ChecklistItemCauseValidated    = "causeValidated"
	ChecklistItemPrizeDelivered    = "prizeDelivered"
	ChecklistItemEvidenceConfirmed = "evidenceConfirmed"
	ChecklistItemFraudCheckPassed  = "fraudCheckPassed"
)

// ReleaseChecklist is the five-flag readiness snapshot gating APPROVED.
// PrizeDelivered is nil for funds that are not prize-bound; a nil flag counts
// as satisfied.
type ReleaseChecklist struct {
	UserVerified      bool  `json:"userVerified"`
	CauseValidated    bool  `json:"causeValidated"`
	PrizeDelivered    *bool `json:"prizeDelivered,omitempty"`
	EvidenceConfirmed bool  `json:"evidenceConfirmed"`
	FraudCheckPassed  bool  `json:"fraudCheckPassed"`
}

// AllPassed reports whether every checklist item is satisfied.
func (c ReleaseChecklist) AllPassed() bool {
	prizeOK := c.PrizeDelivered == nil || *c.PrizeDelivered
	return c.UserVerified && c.CauseValidated && prizeOK && c.EvidenceConfirmed && c.FraudCheckPassed
}

// Missing returns the names of the unmet checklist items, in a stable order.
func (c ReleaseChecklist) Missing() []string {
	missing := []string{}
	if !c.UserVerified {
		missing = append(missing, ChecklistItemUserVerified)
	}
	if !c.CauseValidated {
		missing = append(missing, ChecklistItemCauseValidated)
	}
	if c.PrizeDelivered != nil && !*c.PrizeDelivered {
		missing = append(missing, ChecklistItemPrizeDelivered)
	}
	if !c.EvidenceConfirmed {
		missing = append(missing, ChecklistItemEvidenceConfirmed)
	}
	if !c.FraudCheckPassed {
		missing = append(missing, ChecklistItemFraudCheckPassed)
	}
	return missing
}
