package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"fundguard.backend/internal/domain/entities"
	domainerrors "fundguard.backend/internal/domain/errors"
	"fundguard.backend/internal/interfaces/http/middleware"
	"fundguard.backend/internal/interfaces/http/response"
	"fundguard.backend/internal/usecases"
	"fundguard.backend/pkg/utils"
)

type LedgerHandler struct {
	usecase *usecases.LedgerUsecase
}

func NewLedgerHandler(usecase *usecases.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{usecase: usecase}
}

// CreateEntry creates a custody ledger entry for newly arrived funds
// POST /api/v1/ledger/entries
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var input entities.CreateLedgerEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.usecase.CreateEntry(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// GetEntry gets one ledger entry with its audit history
// GET /api/v1/ledger/entries/:id
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	entry, history, err := h.usecase.GetEntry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entry":   entry,
		"history": history,
	})
}

// ListMyEntries lists the authenticated user's ledger entries
// GET /api/v1/ledger/entries
func (h *LedgerHandler) ListMyEntries(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	page, limit := pagination(c)
	entries, total, err := h.usecase.GetEntriesByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": utils.CalculateMeta(int64(total), page, limit),
	})
}

// GetMyBalance aggregates the authenticated user's custodied funds per status
// GET /api/v1/ledger/balance
func (h *LedgerHandler) GetMyBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	balances, err := h.usecase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balances": balances})
}

// RequestRelease asks for the authenticated owner's held funds to be released
// POST /api/v1/ledger/entries/:id/request-release
func (h *LedgerHandler) RequestRelease(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	var input entities.RequestReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.usecase.RequestRelease(c.Request.Context(), id, userID, input.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// GetReleaseRequirements reports what still gates a release for an entry
// GET /api/v1/ledger/entries/:id/requirements
func (h *LedgerHandler) GetReleaseRequirements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	requirements, err := h.usecase.GetReleaseRequirements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, requirements)
}

// Approve evaluates the release checklist and approves on success (admin)
// POST /api/v1/admin/ledger/entries/:id/approve
func (h *LedgerHandler) Approve(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	entry, err := h.usecase.EvaluateAndApprove(c.Request.Context(), id, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// Release records the fund transfer for an approved entry (admin)
// POST /api/v1/admin/ledger/entries/:id/release
func (h *LedgerHandler) Release(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	var input entities.ReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.usecase.Release(c.Request.Context(), id, adminID, &input)
	if err != nil {
		middleware.CountRelease("refused")
		response.Error(c, err)
		return
	}

	middleware.CountRelease("released")
	response.Success(c, http.StatusOK, entry)
}

// Block freezes an entry pending investigation (admin)
// POST /api/v1/admin/ledger/entries/:id/block
func (h *LedgerHandler) Block(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	var input entities.BlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.usecase.Block(c.Request.Context(), id, adminID, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// Unblock lifts an administrative freeze back into verification (admin)
// POST /api/v1/admin/ledger/entries/:id/unblock
func (h *LedgerHandler) Unblock(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid entry ID"))
		return
	}

	var input entities.BlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.usecase.Unblock(c.Request.Context(), id, adminID, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
