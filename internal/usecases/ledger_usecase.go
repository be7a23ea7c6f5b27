package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/domain/repositories"
	"fundguard.backend/pkg/logger"
	"fundguard.backend/pkg/utils"
)

// SystemActorID marks transitions driven by the service itself.
var SystemActorID = uuid.Nil

// ReleaseEligibilityGate is the identity gate fact consumed by the ledger.
type ReleaseEligibilityGate interface {
	IsReleaseEligible(ctx context.Context, userID uuid.UUID, amount float64) (bool, error)
}

// FraudChecker screens an entry before approval.
type FraudChecker interface {
	Check(ctx context.Context, entry *entities.FundLedgerEntry) (bool, error)
}

// AlwaysPassFraudChecker is the default screening until a real provider is
// wired.
type AlwaysPassFraudChecker struct{}

func (AlwaysPassFraudChecker) Check(ctx context.Context, entry *entities.FundLedgerEntry) (bool, error) {
	return true, nil
}

// DeliveryReleaseMarker is the join point with the evidence workflow.
type DeliveryReleaseMarker interface {
	MarkMoneyReleased(ctx context.Context, deliveryID, adminID uuid.UUID, amount string) (*entities.PrizeDelivery, error)
}

// EntityLocker serializes multi-step flows per entity id.
type EntityLocker interface {
	Acquire(ctx context.Context, entityID, token string) error
	Release(ctx context.Context, entityID, token string) error
}

// LedgerPolicy carries the custody release policy knobs.
type LedgerPolicy struct {
	DefaultCauseID       *uuid.UUID
	AutoApproveThreshold float64
	ConflictRetries      int
}

// LedgerUsecase owns the fund custody state machine. Every transition and its
// audit row commit in one transaction; a transition that is not recorded in
// the audit trail did not happen.
type LedgerUsecase struct {
	ledgerRepo   repositories.LedgerRepository
	auditRepo    repositories.AuditRepository
	deliveryRepo repositories.DeliveryRepository
	causeRepo    repositories.CauseRepository
	uow          repositories.UnitOfWork
	gate         ReleaseEligibilityGate
	fraud        FraudChecker
	marker       DeliveryReleaseMarker
	lock         EntityLocker
	policy       LedgerPolicy
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	ledgerRepo repositories.LedgerRepository,
	auditRepo repositories.AuditRepository,
	deliveryRepo repositories.DeliveryRepository,
	causeRepo repositories.CauseRepository,
	uow repositories.UnitOfWork,
	gate ReleaseEligibilityGate,
	fraud FraudChecker,
	marker DeliveryReleaseMarker,
	lock EntityLocker,
	policy LedgerPolicy,
) *LedgerUsecase {
	if policy.ConflictRetries <= 0 {
		policy.ConflictRetries = 3
	}
	if fraud == nil {
		fraud = AlwaysPassFraudChecker{}
	}
	return &LedgerUsecase{
		ledgerRepo:   ledgerRepo,
		auditRepo:    auditRepo,
		deliveryRepo: deliveryRepo,
		causeRepo:    causeRepo,
		uow:          uow,
		gate:         gate,
		fraud:        fraud,
		marker:       marker,
		lock:         lock,
		policy:       policy,
	}
}

// CreateEntry records a fund-generating event and auto-advances it to HELD.
func (u *LedgerUsecase) CreateEntry(ctx context.Context, input *entities.CreateLedgerEntryInput) (*entities.FundLedgerEntry, error) {
	if !validSourceType(input.SourceType) {
		return nil, domainerrors.BadRequest("unknown source type")
	}
	if !validAmount(input.Amount) {
		return nil, domainerrors.BadRequest("amount must be a positive decimal")
	}
	if input.Currency == "" {
		return nil, domainerrors.BadRequest("currency is required")
	}
	if input.SourceType == entities.FundSourcePrizeCashEquivalent && input.DeliveryID == nil {
		return nil, domainerrors.BadRequest("prize cash-equivalent entries require a delivery")
	}

	causeID := input.CauseID
	if causeID == nil && input.SourceType == entities.FundSourceRaffleProceeds {
		// Default-cause assignment guarantee for raffle-tied money.
		causeID = u.policy.DefaultCauseID
	}

	now := time.Now()
	entry := &entities.FundLedgerEntry{
		ID:         utils.GenerateUUIDv7(),
		UserID:     input.UserID,
		CauseID:    causeID,
		DeliveryID: input.DeliveryID,
		SourceType: input.SourceType,
		SourceRef:  input.SourceRef,
		Amount:     input.Amount,
		Currency:   strings.ToUpper(input.Currency),
		Status:     entities.LedgerStatusGenerated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.ledgerRepo.Create(txCtx, entry); err != nil {
			return err
		}
		return u.auditRepo.Append(txCtx, &entities.AuditEntry{
			ID:         utils.GenerateUUIDv7(),
			EntityType: entities.AuditEntityLedger,
			EntityID:   entry.ID,
			FromStatus: "",
			ToStatus:   string(entities.LedgerStatusGenerated),
			ActorID:    SystemActorID,
			ActorType:  entities.ActorTypeSystem,
			Reason:     "fund-generating event recorded",
			CreatedAt:  now,
		})
	}); err != nil {
		return nil, err
	}

	// Fire-and-forget auto-advance; the sweep job picks up any straggler.
	if err := u.AdvanceToHeld(ctx, entry.ID); err != nil {
		logger.Warn(ctx, "auto-advance to HELD deferred to sweep",
			zap.String("entry_id", entry.ID.String()), zap.Error(err))
	} else {
		entry.Status = entities.LedgerStatusHeld
	}

	return entry, nil
}

// AdvanceToHeld moves a GENERATED entry to HELD. Idempotent: an entry already
// past GENERATED is left alone.
func (u *LedgerUsecase) AdvanceToHeld(ctx context.Context, entryID uuid.UUID) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		entry, err := u.ledgerRepo.GetByID(txCtx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != entities.LedgerStatusGenerated {
			return nil
		}
		return u.commitTransition(txCtx, entry, entities.LedgerStatusHeld, map[string]interface{}{
			"status":          string(entities.LedgerStatusHeld),
			"previous_status": string(entities.LedgerStatusGenerated),
		}, SystemActorID, entities.ActorTypeSystem, "funds taken into custody")
	})
}

// RequestRelease moves a HELD entry to PENDING_VERIFICATION on behalf of its
// owner. Below the auto-approve threshold the service immediately attempts
// the checklist evaluation itself.
func (u *LedgerUsecase) RequestRelease(ctx context.Context, entryID, requesterID uuid.UUID, notes string) (*entities.FundLedgerEntry, error) {
	err := u.withConflictRetry(ctx, func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			current, err := u.ledgerRepo.GetByID(txCtx, entryID)
			if err != nil {
				return notFoundAs(err, "ledger entry not found")
			}
			if current.UserID != requesterID {
				return domainerrors.Forbidden("only the owning user may request release")
			}
			if current.Status != entities.LedgerStatusHeld {
				return u.invalidState(current)
			}
			if err := u.commitTransition(txCtx, current, entities.LedgerStatusPendingVerification, map[string]interface{}{
				"status":          string(entities.LedgerStatusPendingVerification),
				"previous_status": string(current.Status),
				"request_notes":   notes,
			}, requesterID, entities.ActorTypeUser, "release requested"); err != nil {
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.maybeAutoApprove(ctx, entryID)

	return u.ledgerRepo.GetByID(ctx, entryID)
}

// EvaluateAndApprove re-reads every gating fact inside the transaction and
// moves PENDING_VERIFICATION to APPROVED only when the checklist is complete.
func (u *LedgerUsecase) EvaluateAndApprove(ctx context.Context, entryID, adminID uuid.UUID) (*entities.FundLedgerEntry, error) {
	actorType := entities.ActorTypeAdmin
	if adminID == SystemActorID {
		actorType = entities.ActorTypeSystem
	}

	token := utils.GenerateUUIDv7().String()
	if u.lock != nil {
		if err := u.lock.Acquire(ctx, entryID.String(), token); err != nil {
			return nil, domainerrors.ConcurrencyConflict("entry is being processed")
		}
		defer u.lock.Release(ctx, entryID.String(), token)
	}

	var entry *entities.FundLedgerEntry
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.ledgerRepo.GetByID(txCtx, entryID)
		if err != nil {
			return notFoundAs(err, "ledger entry not found")
		}
		if current.Status != entities.LedgerStatusPendingVerification {
			return u.invalidState(current)
		}

		// Facts are read in the same transactional boundary as the commit;
		// a checklist computed earlier is only ever advisory.
		checklist, err := u.liveChecklist(txCtx, current)
		if err != nil {
			return err
		}
		if !checklist.AllPassed() {
			return domainerrors.ChecklistIncomplete(checklist.Missing())
		}

		now := time.Now()
		if err := u.commitTransition(txCtx, current, entities.LedgerStatusApproved, map[string]interface{}{
			"status":          string(entities.LedgerStatusApproved),
			"previous_status": string(current.Status),
			"approved_by":     adminID,
			"approved_at":     now,
		}, adminID, actorType, "release checklist complete"); err != nil {
			return err
		}
		entry = current
		return nil
	})
	if err != nil {
		u.auditRefusal(ctx, entryID, adminID, actorType, err)
		return nil, err
	}

	entry.Status = entities.LedgerStatusApproved
	return entry, nil
}

// Release records the custody decision that money may leave. Effect-once: a
// retried call against a RELEASED entry refuses with AlreadyReleased and the
// stored transfer reference is untouched. It does not move money.
func (u *LedgerUsecase) Release(ctx context.Context, entryID, adminID uuid.UUID, input *entities.ReleaseInput) (*entities.FundLedgerEntry, error) {
	if input.TransferRef == "" {
		return nil, domainerrors.BadRequest("transferRef is required")
	}

	token := utils.GenerateUUIDv7().String()
	if u.lock != nil {
		if err := u.lock.Acquire(ctx, entryID.String(), token); err != nil {
			return nil, domainerrors.ConcurrencyConflict("entry is being processed")
		}
		defer u.lock.Release(ctx, entryID.String(), token)
	}

	var entry *entities.FundLedgerEntry
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.ledgerRepo.GetByID(txCtx, entryID)
		if err != nil {
			return notFoundAs(err, "ledger entry not found")
		}
		if current.TransferRef.Valid && current.TransferRef.String != "" {
			return domainerrors.AlreadyReleased("entry already carries transfer reference " + current.TransferRef.String)
		}
		if current.Status != entities.LedgerStatusApproved {
			return u.invalidState(current)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":          string(entities.LedgerStatusReleased),
			"previous_status": string(current.Status),
			"transfer_ref":    input.TransferRef,
			"released_at":     now,
		}
		if input.ReleaseTarget != "" {
			updates["release_target"] = input.ReleaseTarget
		}
		if err := u.commitTransition(txCtx, current, entities.LedgerStatusReleased, updates,
			adminID, entities.ActorTypeAdmin, "custody released, transfer "+input.TransferRef); err != nil {
			return err
		}
		entry = current
		return nil
	})
	if err != nil {
		u.auditRefusal(ctx, entryID, adminID, entities.ActorTypeAdmin, err)
		return nil, err
	}

	// Join point with the evidence workflow: a prize-bound release completes
	// the delivery record. The delivery op is itself effect-once.
	if entry.DeliveryID != nil && u.marker != nil {
		if _, err := u.marker.MarkMoneyReleased(ctx, *entry.DeliveryID, adminID, entry.Amount); err != nil {
			logger.Error(ctx, "delivery money-released mark failed after ledger release",
				zap.String("entry_id", entryID.String()),
				zap.String("delivery_id", entry.DeliveryID.String()),
				zap.Error(err))
		}
	}

	return u.ledgerRepo.GetByID(ctx, entryID)
}

// Block freezes an entry from HELD, PENDING_VERIFICATION or APPROVED. The
// previous status is recorded so unblocking can route back through
// re-evaluation.
func (u *LedgerUsecase) Block(ctx context.Context, entryID, adminID uuid.UUID, reason string) (*entities.FundLedgerEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.BadRequest("block reason is required")
	}

	var entry *entities.FundLedgerEntry
	err := u.withConflictRetry(ctx, func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			current, err := u.ledgerRepo.GetByID(txCtx, entryID)
			if err != nil {
				return notFoundAs(err, "ledger entry not found")
			}
			if !entities.CanTransition(current.Status, entities.LedgerStatusBlocked) {
				return u.invalidState(current)
			}
			if err := u.commitTransition(txCtx, current, entities.LedgerStatusBlocked, map[string]interface{}{
				"status":          string(entities.LedgerStatusBlocked),
				"previous_status": string(current.Status),
				"blocked_reason":  reason,
			}, adminID, entities.ActorTypeAdmin, reason); err != nil {
				return err
			}
			entry = current
			return nil
		})
	})
	if err != nil {
		u.auditRefusal(ctx, entryID, adminID, entities.ActorTypeAdmin, err)
		return nil, err
	}

	entry.Status = entities.LedgerStatusBlocked
	return entry, nil
}

// Unblock returns a BLOCKED entry to PENDING_VERIFICATION. Never to APPROVED:
// unblocking does not skip checklist re-evaluation.
func (u *LedgerUsecase) Unblock(ctx context.Context, entryID, adminID uuid.UUID, reason string) (*entities.FundLedgerEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.BadRequest("unblock justification is required")
	}

	var entry *entities.FundLedgerEntry
	err := u.withConflictRetry(ctx, func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			current, err := u.ledgerRepo.GetByID(txCtx, entryID)
			if err != nil {
				return notFoundAs(err, "ledger entry not found")
			}
			if current.Status != entities.LedgerStatusBlocked {
				return u.invalidState(current)
			}
			if err := u.commitTransition(txCtx, current, entities.LedgerStatusPendingVerification, map[string]interface{}{
				"status":          string(entities.LedgerStatusPendingVerification),
				"previous_status": string(current.Status),
				"blocked_reason":  nil,
			}, adminID, entities.ActorTypeAdmin, reason); err != nil {
				return err
			}
			entry = current
			return nil
		})
	})
	if err != nil {
		u.auditRefusal(ctx, entryID, adminID, entities.ActorTypeAdmin, err)
		return nil, err
	}

	entry.Status = entities.LedgerStatusPendingVerification
	return entry, nil
}

// GetEntry returns one entry with its full transition history.
func (u *LedgerUsecase) GetEntry(ctx context.Context, entryID uuid.UUID) (*entities.FundLedgerEntry, []*entities.AuditEntry, error) {
	entry, err := u.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, notFoundAs(err, "ledger entry not found")
	}
	history, err := u.auditRepo.GetByEntityID(ctx, entities.AuditEntityLedger, entryID)
	if err != nil {
		return nil, nil, err
	}
	return entry, history, nil
}

// GetEntriesByUser lists a user's entries with pagination.
func (u *LedgerUsecase) GetEntriesByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.FundLedgerEntry, int, error) {
	params := utils.GetPaginationParams(page, limit)
	return u.ledgerRepo.GetByUserID(ctx, userID, params.Limit, params.CalculateOffset())
}

// GetBalance aggregates a user's custodied amounts per status.
func (u *LedgerUsecase) GetBalance(ctx context.Context, userID uuid.UUID) ([]*entities.BalanceByStatus, error) {
	return u.ledgerRepo.BalanceByStatus(ctx, userID)
}

// GetReleaseRequirements reports the checklist with the unmet items named.
// It never errors for missing-but-expected facts; those read as "not yet
// eligible".
func (u *LedgerUsecase) GetReleaseRequirements(ctx context.Context, entryID uuid.UUID) (*entities.ReleaseRequirements, error) {
	entry, err := u.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, notFoundAs(err, "ledger entry not found")
	}

	checklist, err := u.liveChecklist(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &entities.ReleaseRequirements{
		EntryID:   entry.ID,
		Status:    entry.Status,
		Checklist: checklist,
		Missing:   checklist.Missing(),
	}, nil
}

// liveChecklist gathers the gating facts for an entry. Lookups that fail
// because the fact does not exist read as an unmet item, not an error.
func (u *LedgerUsecase) liveChecklist(ctx context.Context, entry *entities.FundLedgerEntry) (entities.ReleaseChecklist, error) {
	eligible, err := u.gate.IsReleaseEligible(ctx, entry.UserID, parseAmount(entry.Amount))
	if err != nil {
		return entities.ReleaseChecklist{}, err
	}

	var causeFact *entities.CauseFact
	if entry.CauseID != nil {
		fact, err := u.causeRepo.GetFact(ctx, *entry.CauseID)
		if err != nil && err != domainerrors.ErrNotFound {
			return entities.ReleaseChecklist{}, err
		}
		causeFact = fact
	} else {
		// Money not earmarked for a cause has no cause gate.
		causeFact = &entities.CauseFact{IsActive: true, IsVerified: true}
	}

	var deliveryFact *DeliveryFact
	if entry.IsPrizeBound() {
		// No delivery record reads as undelivered, never as satisfied.
		deliveryFact = &DeliveryFact{}
	}
	if entry.IsPrizeBound() && entry.DeliveryID != nil {
		delivery, err := u.deliveryRepo.GetByID(ctx, *entry.DeliveryID)
		if err != nil && err != domainerrors.ErrNotFound {
			return entities.ReleaseChecklist{}, err
		}
		if delivery != nil {
			deliveryFact.Delivered = delivery.Status == entities.DeliveryStatusVerified ||
				delivery.Status == entities.DeliveryStatusCompleted
			deliveryFact.EvidenceConfirmed = delivery.HasEvidence()
		}
	}

	passed, err := u.fraud.Check(ctx, entry)
	if err != nil {
		return entities.ReleaseChecklist{}, err
	}

	return EvaluateChecklist(entry, eligible, causeFact, deliveryFact, FraudFact{Passed: passed}), nil
}

// commitTransition applies the optimistic status update and the audit row in
// the caller's transaction. Callers have already validated the move.
func (u *LedgerUsecase) commitTransition(
	txCtx context.Context,
	entry *entities.FundLedgerEntry,
	to entities.LedgerStatus,
	updates map[string]interface{},
	actorID uuid.UUID,
	actorType entities.ActorType,
	reason string,
) error {
	if err := u.ledgerRepo.UpdateStatusIf(txCtx, entry.ID, entry.Status, updates); err != nil {
		return err
	}
	return u.auditRepo.Append(txCtx, &entities.AuditEntry{
		ID:         utils.GenerateUUIDv7(),
		EntityType: entities.AuditEntityLedger,
		EntityID:   entry.ID,
		FromStatus: string(entry.Status),
		ToStatus:   string(to),
		ActorID:    actorID,
		ActorType:  actorType,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
}

// auditRefusal records a refused admin-initiated action for fraud review.
// Routine user queries are never logged this way.
func (u *LedgerUsecase) auditRefusal(ctx context.Context, entryID, actorID uuid.UUID, actorType entities.ActorType, refusal error) {
	appErr, ok := refusal.(*domainerrors.AppError)
	if !ok || actorType == entities.ActorTypeUser {
		return
	}
	entry, err := u.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return
	}
	if err := u.auditRepo.Append(ctx, &entities.AuditEntry{
		ID:         utils.GenerateUUIDv7(),
		EntityType: entities.AuditEntityLedger,
		EntityID:   entryID,
		FromStatus: string(entry.Status),
		ToStatus:   string(entry.Status),
		ActorID:    actorID,
		ActorType:  actorType,
		Reason:     "refused: " + appErr.Code,
		CreatedAt:  time.Now(),
	}); err != nil {
		logger.Warn(ctx, "failed to audit refusal", zap.Error(err))
	}
}

func (u *LedgerUsecase) maybeAutoApprove(ctx context.Context, entryID uuid.UUID) {
	if u.policy.AutoApproveThreshold <= 0 {
		return
	}
	entry, err := u.ledgerRepo.GetByID(ctx, entryID)
	if err != nil || parseAmount(entry.Amount) >= u.policy.AutoApproveThreshold {
		return
	}
	if _, err := u.EvaluateAndApprove(ctx, entryID, SystemActorID); err != nil {
		logger.Debug(ctx, "auto-approve declined", zap.String("entry_id", entryID.String()), zap.Error(err))
	}
}

// withConflictRetry retries optimistic conflicts a bounded number of times.
// Release never goes through here.
func (u *LedgerUsecase) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < u.policy.ConflictRetries; attempt++ {
		err = fn()
		if err != domainerrors.ErrConcurrencyConflict {
			return err
		}
	}
	return domainerrors.ConcurrencyConflict("persistent write conflict, retry later")
}

func (u *LedgerUsecase) invalidState(entry *entities.FundLedgerEntry) *domainerrors.AppError {
	var legal []string
	for _, next := range entities.NextStatuses(entry.Status) {
		legal = append(legal, string(next))
	}
	return domainerrors.InvalidState(
		"entry is "+string(entry.Status), legal)
}

func notFoundAs(err error, message string) error {
	if err == domainerrors.ErrNotFound {
		return domainerrors.NotFound(message)
	}
	return err
}

func validSourceType(t entities.FundSourceType) bool {
	switch t {
	case entities.FundSourceDonation, entities.FundSourceRaffleProceeds,
		entities.FundSourcePrizeCashEquivalent, entities.FundSourceCauseShare:
		return true
	}
	return false
}

func validAmount(amount string) bool {
	return parseAmount(amount) > 0
}
