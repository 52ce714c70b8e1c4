package handler

import (
	"errors"
	"net/http"
	"project-pilot/internal/logger"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/membership"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithError renders AppErrors with their own status and message.
// Anything else is logged and hidden behind a generic 500.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		utils.ErrorResponse(c, appErr.Status(), appErr.Message)
		return
	}

	logger.Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	_ = c.Error(err)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
	}
	return userID, ok
}

func projectAccess(c *gin.Context) (*membership.Access, bool) {
	access, ok := middleware.GetProjectAccess(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
	}
	return access, ok
}

func uuidParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}
