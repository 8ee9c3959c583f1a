package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClosureHandler holds the daily closure service.
type ClosureHandler struct {
	closureService services.ClosureService
}

// NewClosureHandler creates a new ClosureHandler.
func NewClosureHandler(cs services.ClosureService) *ClosureHandler {
	return &ClosureHandler{closureService: cs}
}

func respondClosureError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from closureService")
	if errors.Is(err, services.ErrBusinessNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
	} else if errors.Is(err, services.ErrClosureValidation) || errors.Is(err, services.ErrDateFormat) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid closure data.", err.Error()))
	} else {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process closure.", "Internal error"))
	}
}

// GetClosures lists every closure of the scope with recomputed profit.
func (h *ClosureHandler) GetClosures(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	closures, err := h.closureService.GetClosures(userID, businessID)
	if err != nil {
		respondClosureError(c, err, "GetClosures")
		return
	}
	c.JSON(http.StatusOK, closures)
}

// GetClosureForDate returns the closure for one day, or a zeroed placeholder
// carrying the business default commission when none was recorded.
func (h *ClosureHandler) GetClosureForDate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	closure, err := h.closureService.GetClosureForDate(userID, businessID, c.Param("date"))
	if err != nil {
		respondClosureError(c, err, "GetClosureForDate")
		return
	}
	c.JSON(http.StatusOK, closure)
}

// SaveClosure creates or replaces the closure for (user, date), including a
// wholesale replacement of its expense list.
func (h *ClosureHandler) SaveClosure(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SaveClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveClosure: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	closure, err := h.closureService.SaveClosure(userID, businessID, req)
	if err != nil {
		respondClosureError(c, err, "SaveClosure")
		return
	}
	c.JSON(http.StatusOK, closure)
}
