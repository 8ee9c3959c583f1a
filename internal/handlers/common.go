package handlers

import (
	"errors"
	"net/http"

	"tiempos_backend/internal/middleware"
	"tiempos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireUserID pulls the authenticated user ID out of the context. On failure
// it writes the 401 response itself and returns ok=false.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.LogError(errors.New("userID not found in context"), "requireUserID: userID missing or wrong type")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID path parameter, writing the 400 response on
// failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" parameter, expected a UUID.", err.Error()))
		return uuid.Nil, false
	}
	return id, true
}
