package middleware

import (
	"errors"
	domainProject "project-pilot/internal/domain/project"
	"project-pilot/internal/logger"
	"project-pilot/internal/usecase/membership"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ProjectAccessKey = "projectAccess"
	ProjectIDParam   = "projectId"
)

// ProjectPermission admits the authenticated user to the :projectId route
// when their membership role is one of roles. No roles means any member.
// It must run after AuthMiddleware.
func ProjectPermission(gate *membership.Gate, roles ...domainProject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			abortWithError(c, appErrors.ErrUnauthorized)
			return
		}

		projectID, err := uuid.Parse(c.Param(ProjectIDParam))
		if err != nil {
			abortWithError(c, appErrors.ErrMissingProjectID)
			return
		}

		access, err := gate.Check(c.Request.Context(), projectID, userID, roles...)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ProjectAccessKey, access)
		c.Next()
	}
}

// GetProjectAccess returns the access granted by ProjectPermission.
func GetProjectAccess(c *gin.Context) (*membership.Access, bool) {
	value, exists := c.Get(ProjectAccessKey)
	if !exists {
		return nil, false
	}
	access, ok := value.(*membership.Access)
	return access, ok
}

func abortWithError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		utils.ErrorResponse(c, appErr.Status(), appErr.Message)
		c.Abort()
		return
	}

	logger.Error("Project permission check failed",
		zap.String("request_id", GetRequestID(c)),
		zap.Error(err),
	)
	utils.ErrorResponse(c, appErrors.KindInternal.HTTPStatus(), "Internal server error")
	c.Abort()
}
