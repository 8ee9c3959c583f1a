package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdvanceHandler holds the advance service.
type AdvanceHandler struct {
	advanceService services.AdvanceService
}

// NewAdvanceHandler creates a new AdvanceHandler.
func NewAdvanceHandler(as services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: as}
}

// GetAdvances lists every advance of the scope, newest first.
func (h *AdvanceHandler) GetAdvances(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	advances, err := h.advanceService.GetAdvances(userID, businessID)
	if err != nil {
		utils.LogError(err, "GetAdvances: Error from advanceService.GetAdvances")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve advances.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, advances)
}

// CreateAdvance records an advance. An idempotency key, when supplied, makes
// retries return the original row instead of inserting twice.
func (h *AdvanceHandler) CreateAdvance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateAdvance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	advance, err := h.advanceService.CreateAdvance(userID, businessID, req)
	if err != nil {
		utils.LogError(err, "CreateAdvance: Error from advanceService.CreateAdvance")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else if errors.Is(err, services.ErrAdvanceValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid advance data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create advance.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, advance)
}

// DeleteAdvance removes an advance owned by the caller.
func (h *AdvanceHandler) DeleteAdvance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	advanceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.advanceService.DeleteAdvance(userID, advanceID); err != nil {
		utils.LogError(err, "DeleteAdvance: Error from advanceService.DeleteAdvance")
		if errors.Is(err, services.ErrAdvanceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Advance not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete advance.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Advance deleted successfully"})
}
