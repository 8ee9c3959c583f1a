package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PeriodHandler holds the period service.
type PeriodHandler struct {
	periodService services.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(ps services.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: ps}
}

func respondPeriodError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from periodService")
	if errors.Is(err, services.ErrPeriodNotFound) || errors.Is(err, services.ErrBusinessNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Period not found.", err.Error()))
	} else if errors.Is(err, services.ErrPeriodOverlap) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Period dates overlap an existing period for this business.", err.Error()))
	} else if errors.Is(err, services.ErrDateFormat) || errors.Is(err, services.ErrPeriodValidation) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid period data.", err.Error()))
	} else {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process period.", "Internal error"))
	}
}

// GetPeriods lists a business's periods, newest start date first.
func (h *PeriodHandler) GetPeriods(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	periods, err := h.periodService.GetPeriods(userID, businessID)
	if err != nil {
		respondPeriodError(c, err, "GetPeriods")
		return
	}
	c.JSON(http.StatusOK, periods)
}

// GetPeriodByID returns a single period.
func (h *PeriodHandler) GetPeriodByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriodByID(userID, periodID)
	if err != nil {
		respondPeriodError(c, err, "GetPeriodByID")
		return
	}
	c.JSON(http.StatusOK, period)
}

// CreatePeriod opens a new period. When dates are omitted it defaults to the
// current Monday-Sunday week. Admin only.
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePeriod: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	period, err := h.periodService.CreatePeriod(userID, businessID, req)
	if err != nil {
		respondPeriodError(c, err, "CreatePeriod")
		return
	}
	c.JSON(http.StatusCreated, period)
}

// UpdatePeriod renames, closes, pins or re-dates a period. Date edits are
// overlap-guarded like creation.
func (h *PeriodHandler) UpdatePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePeriod: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	period, err := h.periodService.UpdatePeriod(userID, periodID, req)
	if err != nil {
		respondPeriodError(c, err, "UpdatePeriod")
		return
	}
	c.JSON(http.StatusOK, period)
}

// DeletePeriod removes the period and every closure, advance and deduction
// inside its range in one transaction. Admin only.
func (h *PeriodHandler) DeletePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.periodService.DeletePeriod(userID, periodID)
	if err != nil {
		respondPeriodError(c, err, "DeletePeriod")
		return
	}
	c.JSON(http.StatusOK, result)
}
