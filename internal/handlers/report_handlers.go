package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetPeriodSummary returns the full rollup of a period: materialized days,
// totals and the final balance.
func (h *ReportHandler) GetPeriodSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.reportService.GetPeriodSummary(userID, periodID)
	if err != nil {
		utils.LogError(err, "GetPeriodSummary: Error from reportService.GetPeriodSummary")
		if errors.Is(err, services.ErrPeriodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Period not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute period summary.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetCarryOver returns the previous period's balance as a suggested advance.
func (h *ReportHandler) GetCarryOver(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.reportService.GetCarryOver(userID, periodID)
	if err != nil {
		utils.LogError(err, "GetCarryOver: Error from reportService.GetCarryOver")
		if errors.Is(err, services.ErrPeriodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Period not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve carry-over.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, offer)
}

// ImportCarryOver confirms the carry-over suggestion and records it as a
// regular advance. The amount is recomputed server-side.
func (h *ReportHandler) ImportCarryOver(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periodID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	advance, err := h.reportService.ImportCarryOver(userID, periodID)
	if err != nil {
		utils.LogError(err, "ImportCarryOver: Error from reportService.ImportCarryOver")
		if errors.Is(err, services.ErrPeriodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Period not found.", err.Error()))
		} else if errors.Is(err, services.ErrNoCarryOver) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "There is no balance to carry over into this period.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to import carry-over.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, advance)
}

// GetRangeReport aggregates closures over a trailing week, month or year
// window ending today.
func (h *ReportHandler) GetRangeReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rangeName := c.DefaultQuery("range", "week")
	report, err := h.reportService.GetRangeReport(userID, businessID, rangeName)
	if err != nil {
		utils.LogError(err, "GetRangeReport: Error from reportService.GetRangeReport")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidReportRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid report range.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
