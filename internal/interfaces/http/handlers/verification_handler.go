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
)

type VerificationHandler struct {
	usecase *usecases.VerificationUsecase
}

func NewVerificationHandler(usecase *usecases.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{usecase: usecase}
}

// GetMyLevel reports the authenticated user's current verification fact
// GET /api/v1/verification/me
func (h *VerificationHandler) GetMyLevel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	fact, err := h.usecase.CurrentLevel(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, fact)
}

// SubmitDocuments opens a verification session for the authenticated user
// POST /api/v1/verification/submit
func (h *VerificationHandler) SubmitDocuments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.SubmitVerificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session, err := h.usecase.SubmitDocuments(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, session)
}

type reviewVerificationRequest struct {
	Approve bool `json:"approve"`
}

// Review approves or rejects a pending verification session (admin)
// POST /api/v1/admin/verification/:id/review
func (h *VerificationHandler) Review(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid session ID"))
		return
	}

	var req reviewVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session, err := h.usecase.Review(c.Request.Context(), id, adminID, req.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}
