package usecases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/domain/repositories"
	"fundguard.backend/pkg/utils"
)

// DeliveryUsecase owns the prize-delivery evidence workflow: submission by
// the prize owner, admin review, and the money-released join point with the
// custody ledger.
type DeliveryUsecase struct {
	deliveryRepo repositories.DeliveryRepository
	auditRepo    repositories.AuditRepository
	uow          repositories.UnitOfWork
}

// NewDeliveryUsecase creates a new delivery usecase
func NewDeliveryUsecase(
	deliveryRepo repositories.DeliveryRepository,
	auditRepo repositories.AuditRepository,
	uow repositories.UnitOfWork,
) *DeliveryUsecase {
	return &DeliveryUsecase{
		deliveryRepo: deliveryRepo,
		auditRepo:    auditRepo,
		uow:          uow,
	}
}

// CreateDelivery registers a (prize, winner) pairing awaiting fulfillment.
func (u *DeliveryUsecase) CreateDelivery(ctx context.Context, delivery *entities.PrizeDelivery) (*entities.PrizeDelivery, error) {
	now := time.Now()
	delivery.ID = utils.GenerateUUIDv7()
	delivery.Status = entities.DeliveryStatusPending
	delivery.CreatedAt = now
	delivery.UpdatedAt = now

	if err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.deliveryRepo.Create(txCtx, delivery); err != nil {
			return err
		}
		return u.appendAudit(txCtx, delivery.ID, "", entities.DeliveryStatusPending,
			SystemActorID, entities.ActorTypeSystem, "winner determined")
	}); err != nil {
		return nil, err
	}
	return delivery, nil
}

// SubmitEvidence records delivery proof from the prize owner: 1 to 10 images
// and at least one winner contact.
func (u *DeliveryUsecase) SubmitEvidence(ctx context.Context, deliveryID, submitterID uuid.UUID, input *entities.SubmitEvidenceInput) (*entities.PrizeDelivery, error) {
	if len(input.Images) == 0 {
		return nil, domainerrors.BadRequest("at least one evidence image is required")
	}
	if len(input.Images) > entities.MaxEvidenceImages {
		return nil, domainerrors.BadRequest("at most 10 evidence images are accepted")
	}
	if input.WinnerPhone == "" && input.WinnerEmail == "" {
		return nil, domainerrors.BadRequest("winner phone or email is required")
	}

	var delivery *entities.PrizeDelivery
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.deliveryRepo.GetByID(txCtx, deliveryID)
		if err != nil {
			return notFoundAs(err, "prize delivery not found")
		}
		if current.PrizeOwnerID != submitterID {
			return domainerrors.Forbidden("only the prize owner may submit delivery evidence")
		}
		if current.Status != entities.DeliveryStatusPending {
			return u.invalidState(current)
		}

		images, err := json.Marshal(input.Images)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":          string(entities.DeliveryStatusEvidenceSubmitted),
			"evidence_images": string(images),
		}
		if input.WinnerPhone != "" {
			updates["winner_phone"] = input.WinnerPhone
		}
		if input.WinnerEmail != "" {
			updates["winner_email"] = input.WinnerEmail
		}
		if input.DeliveryDate != nil {
			updates["delivered_at"] = input.DeliveryDate
		}

		if err := u.commitTransition(txCtx, current, entities.DeliveryStatusEvidenceSubmitted,
			updates, submitterID, entities.ActorTypeUser, "delivery evidence submitted"); err != nil {
			return err
		}
		delivery = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.deliveryRepo.GetByID(ctx, delivery.ID)
}

// StartReview moves a submission under admin review.
func (u *DeliveryUsecase) StartReview(ctx context.Context, deliveryID, reviewerID uuid.UUID) (*entities.PrizeDelivery, error) {
	return u.adminTransition(ctx, deliveryID, reviewerID,
		entities.DeliveryStatusEvidenceSubmitted, entities.DeliveryStatusUnderReview,
		"review started", nil)
}

// Verify confirms the delivery proof. Evidence cannot be retracted once
// submitted, but this check stays authoritative at verification time.
func (u *DeliveryUsecase) Verify(ctx context.Context, deliveryID, reviewerID uuid.UUID, notes string) (*entities.PrizeDelivery, error) {
	var delivery *entities.PrizeDelivery
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.deliveryRepo.GetByID(txCtx, deliveryID)
		if err != nil {
			return notFoundAs(err, "prize delivery not found")
		}
		if current.Status != entities.DeliveryStatusUnderReview {
			return u.invalidState(current)
		}
		if !current.HasEvidence() {
			return domainerrors.NoEvidence("cannot verify a delivery without evidence images")
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      string(entities.DeliveryStatusVerified),
			"verified_by": reviewerID,
			"verified_at": now,
		}
		if notes != "" {
			updates["notes"] = notes
		}

		if err := u.commitTransition(txCtx, current, entities.DeliveryStatusVerified,
			updates, reviewerID, entities.ActorTypeAdmin, "delivery verified"); err != nil {
			return err
		}
		delivery = current
		return nil
	})
	if err != nil {
		u.auditRefusal(ctx, deliveryID, reviewerID, err)
		return nil, err
	}

	return u.deliveryRepo.GetByID(ctx, delivery.ID)
}

// Dispute rejects the delivery proof with a justification of at least 10
// characters.
func (u *DeliveryUsecase) Dispute(ctx context.Context, deliveryID, reviewerID uuid.UUID, reason string) (*entities.PrizeDelivery, error) {
	if len(strings.TrimSpace(reason)) < entities.MinDisputeReasonLength {
		return nil, domainerrors.BadRequest("dispute reason must be at least 10 characters")
	}

	return u.adminTransition(ctx, deliveryID, reviewerID,
		entities.DeliveryStatusUnderReview, entities.DeliveryStatusDisputed,
		reason, map[string]interface{}{"notes": reason})
}

// ReopenReview returns a DISPUTED delivery to review. Requires justification;
// this is the only path out of DISPUTED.
func (u *DeliveryUsecase) ReopenReview(ctx context.Context, deliveryID, reviewerID uuid.UUID, reason string) (*entities.PrizeDelivery, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.BadRequest("reopen justification is required")
	}

	return u.adminTransition(ctx, deliveryID, reviewerID,
		entities.DeliveryStatusDisputed, entities.DeliveryStatusUnderReview,
		reason, nil)
}

// MarkMoneyReleased is the join point with the custody ledger: it flips the
// irreversible moneyReleased flag and completes the delivery. Effect-once.
func (u *DeliveryUsecase) MarkMoneyReleased(ctx context.Context, deliveryID, adminID uuid.UUID, amount string) (*entities.PrizeDelivery, error) {
	var delivery *entities.PrizeDelivery
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.deliveryRepo.GetByID(txCtx, deliveryID)
		if err != nil {
			return notFoundAs(err, "prize delivery not found")
		}
		if !current.HasEvidence() {
			return domainerrors.NoEvidence("no delivery evidence on record")
		}
		if current.Status != entities.DeliveryStatusVerified {
			return domainerrors.NotVerified("delivery is " + string(current.Status) + ", expected VERIFIED")
		}
		if current.MoneyReleased {
			return domainerrors.AlreadyReleased("money already released for this delivery")
		}
		if current.IsDonated {
			return domainerrors.DonatedPrizeNoMoney("donated prize carries no cash equivalent")
		}

		now := time.Now()
		if err := u.commitTransition(txCtx, current, entities.DeliveryStatusCompleted, map[string]interface{}{
			"status":          string(entities.DeliveryStatusCompleted),
			"money_released":  true,
			"released_amount": amount,
			"released_at":     now,
		}, adminID, entities.ActorTypeAdmin, "money released, amount "+amount); err != nil {
			return err
		}
		delivery = current
		return nil
	})
	if err != nil {
		u.auditRefusal(ctx, deliveryID, adminID, err)
		return nil, err
	}

	return u.deliveryRepo.GetByID(ctx, delivery.ID)
}

// Complete finishes a verified delivery that never carries money (donated or
// no-cash prizes).
func (u *DeliveryUsecase) Complete(ctx context.Context, deliveryID, adminID uuid.UUID) (*entities.PrizeDelivery, error) {
	return u.adminTransition(ctx, deliveryID, adminID,
		entities.DeliveryStatusVerified, entities.DeliveryStatusCompleted,
		"delivery completed without money movement", nil)
}

// GetDelivery returns one delivery with its review history.
func (u *DeliveryUsecase) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*entities.PrizeDelivery, []*entities.AuditEntry, error) {
	delivery, err := u.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, nil, notFoundAs(err, "prize delivery not found")
	}
	history, err := u.auditRepo.GetByEntityID(ctx, entities.AuditEntityDelivery, deliveryID)
	if err != nil {
		return nil, nil, err
	}
	return delivery, history, nil
}

// PendingReviewQueue lists submissions waiting for an admin, oldest first.
func (u *DeliveryUsecase) PendingReviewQueue(ctx context.Context, page, limit int) ([]*entities.PrizeDelivery, int, error) {
	params := utils.GetPaginationParams(page, limit)
	return u.deliveryRepo.ListByStatus(ctx, entities.DeliveryStatusEvidenceSubmitted, params.Limit, params.CalculateOffset())
}

// Stats aggregates delivery counts per status.
func (u *DeliveryUsecase) Stats(ctx context.Context) (*entities.DeliveryStats, error) {
	return u.deliveryRepo.Stats(ctx)
}

func (u *DeliveryUsecase) adminTransition(
	ctx context.Context,
	deliveryID, actorID uuid.UUID,
	from, to entities.DeliveryStatus,
	reason string,
	extra map[string]interface{},
) (*entities.PrizeDelivery, error) {
	var delivery *entities.PrizeDelivery
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.deliveryRepo.GetByID(txCtx, deliveryID)
		if err != nil {
			return notFoundAs(err, "prize delivery not found")
		}
		if current.Status != from {
			return u.invalidState(current)
		}

		updates := map[string]interface{}{"status": string(to)}
		for k, v := range extra {
			updates[k] = v
		}

		if err := u.commitTransition(txCtx, current, to, updates,
			actorID, entities.ActorTypeAdmin, reason); err != nil {
			return err
		}
		delivery = current
		return nil
	})
	if err != nil {
		u.auditRefusal(ctx, deliveryID, actorID, err)
		return nil, err
	}

	return u.deliveryRepo.GetByID(ctx, delivery.ID)
}

func (u *DeliveryUsecase) commitTransition(
	txCtx context.Context,
	delivery *entities.PrizeDelivery,
	to entities.DeliveryStatus,
	updates map[string]interface{},
	actorID uuid.UUID,
	actorType entities.ActorType,
	reason string,
) error {
	if err := u.deliveryRepo.UpdateStatusIf(txCtx, delivery.ID, delivery.Status, updates); err != nil {
		return err
	}
	return u.appendAudit(txCtx, delivery.ID, delivery.Status, to, actorID, actorType, reason)
}

func (u *DeliveryUsecase) appendAudit(
	txCtx context.Context,
	deliveryID uuid.UUID,
	from, to entities.DeliveryStatus,
	actorID uuid.UUID,
	actorType entities.ActorType,
	reason string,
) error {
	return u.auditRepo.Append(txCtx, &entities.AuditEntry{
		ID:         utils.GenerateUUIDv7(),
		EntityType: entities.AuditEntityDelivery,
		EntityID:   deliveryID,
		FromStatus: string(from),
		ToStatus:   string(to),
		ActorID:    actorID,
		ActorType:  actorType,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
}

func (u *DeliveryUsecase) auditRefusal(ctx context.Context, deliveryID, actorID uuid.UUID, refusal error) {
	appErr, ok := refusal.(*domainerrors.AppError)
	if !ok {
		return
	}
	delivery, err := u.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return
	}
	_ = u.appendAudit(ctx, deliveryID, delivery.Status, delivery.Status,
		actorID, entities.ActorTypeAdmin, "refused: "+appErr.Code)
}

func (u *DeliveryUsecase) invalidState(delivery *entities.PrizeDelivery) *domainerrors.AppError {
	var legal []string
	for _, next := range entities.DeliveryTransitions[delivery.Status] {
		legal = append(legal, string(next))
	}
	return domainerrors.InvalidState("delivery is "+string(delivery.Status), legal)
}
