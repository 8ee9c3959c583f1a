package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/services"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BusinessHandler holds the business service.
type BusinessHandler struct {
	businessService services.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(bs services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: bs}
}

// CreateBusiness registers a new business for the authenticated owner.
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBusiness: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	business, err := h.businessService.CreateBusiness(userID, req)
	if err != nil {
		utils.LogError(err, "CreateBusiness: Error from businessService.CreateBusiness")
		if errors.Is(err, services.ErrBusinessValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid business data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create business.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, business)
}

// GetBusinesses lists all businesses owned by the authenticated user,
// active and inactive alike.
func (h *BusinessHandler) GetBusinesses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	businesses, err := h.businessService.GetBusinesses(userID)
	if err != nil {
		utils.LogError(err, "GetBusinesses: Error from businessService.GetBusinesses")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve businesses.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, businesses)
}

// GetBusinessByID returns a single owned business.
func (h *BusinessHandler) GetBusinessByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	business, err := h.businessService.GetBusinessByID(userID, businessID)
	if err != nil {
		utils.LogError(err, "GetBusinessByID: Error from businessService.GetBusinessByID")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve business.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, business)
}

// UpdateBusiness changes name, default commission or the active flag.
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBusiness: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	business, err := h.businessService.UpdateBusiness(userID, businessID, req)
	if err != nil {
		utils.LogError(err, "UpdateBusiness: Error from businessService.UpdateBusiness")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else if errors.Is(err, services.ErrBusinessValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid business data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update business.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, business)
}

// DeleteBusiness hard-deletes a business and all of its dependent rows.
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.businessService.DeleteBusiness(userID, businessID); err != nil {
		utils.LogError(err, "DeleteBusiness: Error from businessService.DeleteBusiness")
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete business.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business deleted successfully"})
}
