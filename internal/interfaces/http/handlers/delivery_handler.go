package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/interfaces/http/middleware"
	"fundguard.backend/internal/interfaces/http/response"
	"fundguard.backend/internal/usecases"
	"fundguard.backend/pkg/utils"
)

type DeliveryHandler struct {
	usecase *usecases.DeliveryUsecase
}

func NewDeliveryHandler(usecase *usecases.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{usecase: usecase}
}

// GetDelivery gets one delivery with its review history
// GET /api/v1/deliveries/:id
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid delivery ID"))
		return
	}

	delivery, history, err := h.usecase.GetDelivery(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"delivery": delivery,
		"history":  history,
	})
}

// SubmitEvidence records delivery proof from the prize owner
// POST /api/v1/deliveries/:id/evidence
func (h *DeliveryHandler) SubmitEvidence(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid delivery ID"))
		return
	}

	var input entities.SubmitEvidenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	delivery, err := h.usecase.SubmitEvidence(c.Request.Context(), id, userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, delivery)
}

// StartReview moves a submission under admin review
// POST /api/v1/admin/deliveries/:id/review
func (h *DeliveryHandler) StartReview(c *gin.Context) {
	h.adminDecision(c, func(ctx *gin.Context, id, adminID uuid.UUID, _ *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error) {
		return h.usecase.StartReview(ctx.Request.Context(), id, adminID)
	}, false)
}

// Verify confirms delivery proof (admin)
// POST /api/v1/admin/deliveries/:id/verify
func (h *DeliveryHandler) Verify(c *gin.Context) {
	h.adminDecision(c, func(ctx *gin.Context, id, adminID uuid.UUID, input *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error) {
		return h.usecase.Verify(ctx.Request.Context(), id, adminID, input.Notes)
	}, true)
}

// Dispute rejects delivery proof with a justification (admin)
// POST /api/v1/admin/deliveries/:id/dispute
func (h *DeliveryHandler) Dispute(c *gin.Context) {
	h.adminDecision(c, func(ctx *gin.Context, id, adminID uuid.UUID, input *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error) {
		return h.usecase.Dispute(ctx.Request.Context(), id, adminID, input.Reason)
	}, true)
}

// ReopenReview returns a disputed delivery to review (admin)
// POST /api/v1/admin/deliveries/:id/reopen
func (h *DeliveryHandler) ReopenReview(c *gin.Context) {
	h.adminDecision(c, func(ctx *gin.Context, id, adminID uuid.UUID, input *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error) {
		return h.usecase.ReopenReview(ctx.Request.Context(), id, adminID, input.Reason)
	}, true)
}

// Complete finishes a verified delivery that carries no money (admin)
// POST /api/v1/admin/deliveries/:id/complete
func (h *DeliveryHandler) Complete(c *gin.Context) {
	h.adminDecision(c, func(ctx *gin.Context, id, adminID uuid.UUID, _ *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error) {
		return h.usecase.Complete(ctx.Request.Context(), id, adminID)
	}, false)
}

// MarkMoneyReleased completes a verified delivery whose money went out,
// recording the released amount. Re-drivable when the ledger's post-release
// marker call did not land.
// POST /api/v1/admin/deliveries/:id/mark-money-released
func (h *DeliveryHandler) MarkMoneyReleased(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid delivery ID"))
		return
	}

	var input entities.MarkMoneyReleasedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	delivery, err := h.usecase.MarkMoneyReleased(c.Request.Context(), id, adminID, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, delivery)
}

// ReviewQueue lists submissions waiting for review, oldest first (admin)
// GET /api/v1/admin/deliveries/queue
func (h *DeliveryHandler) ReviewQueue(c *gin.Context) {
	page, limit := pagination(c)
	deliveries, total, err := h.usecase.PendingReviewQueue(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deliveries": deliveries,
		"pagination": utils.CalculateMeta(int64(total), page, limit),
	})
}

// Stats aggregates delivery counts per status (admin)
// GET /api/v1/admin/deliveries/stats
func (h *DeliveryHandler) Stats(c *gin.Context) {
	stats, err := h.usecase.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *DeliveryHandler) adminDecision(
	c *gin.Context,
	fn func(*gin.Context, uuid.UUID, uuid.UUID, *entities.ReviewDecisionInput) (*entities.PrizeDelivery, error),
	bindBody bool,
) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid delivery ID"))
		return
	}

	var input entities.ReviewDecisionInput
	if bindBody {
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			response.Error(c, domainerrors.BadRequest(err.Error()))
			return
		}
	}

	delivery, err := fn(c, id, adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, delivery)
}
