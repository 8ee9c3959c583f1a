package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DeductionHandler holds the deduction service.
type DeductionHandler struct {
	deductionService services.DeductionService
}

// NewDeductionHandler creates a new DeductionHandler.
func NewDeductionHandler(ds services.DeductionService) *DeductionHandler {
	return &DeductionHandler{deductionService: ds}
}

// GetDeductions lists every deduction of the scope, newest first.
func (h *DeductionHandler) GetDeductions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deductions, err := h.deductionService.GetDeductions(userID, businessID)
	if err != nil {
		utils.LogError(err, "GetDeductions: Error from deductionService.GetDeductions")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve deductions.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, deductions)
}

// CreateDeduction records a deduction, honoring an optional idempotency key.
func (h *DeductionHandler) CreateDeduction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateDeduction: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	deduction, err := h.deductionService.CreateDeduction(userID, businessID, req)
	if err != nil {
		utils.LogError(err, "CreateDeduction: Error from deductionService.CreateDeduction")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else if errors.Is(err, services.ErrDeductionValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid deduction data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create deduction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, deduction)
}

// DeleteDeduction removes a deduction owned by the caller.
func (h *DeductionHandler) DeleteDeduction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	deductionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deductionService.DeleteDeduction(userID, deductionID); err != nil {
		utils.LogError(err, "DeleteDeduction: Error from deductionService.DeleteDeduction")
		if errors.Is(err, services.ErrDeductionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Deduction not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete deduction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deduction deleted successfully"})
}
