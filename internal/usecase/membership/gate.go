package membership

import (
	"context"
	"slices"

	domainProject "project-pilot/internal/domain/project"
	"project-pilot/internal/logger"
	appErrors "project-pilot/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Access is the outcome of a successful gate check.
type Access struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      domainProject.Role
}

// Gate decides whether a user may act on a project.
type Gate struct {
	registry *Registry
}

func NewGate(registry *Registry) *Gate {
	return &Gate{registry: registry}
}

// Check admits the user when they hold a membership whose role is in allowed.
// An empty allowed list admits any member.
func (g *Gate) Check(ctx context.Context, projectID, userID uuid.UUID, allowed ...domainProject.Role) (*Access, error) {
	if projectID == uuid.Nil {
		return nil, appErrors.ErrMissingProjectID
	}

	role, found, err := g.registry.ResolveRole(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Warn("Project access denied, user is not a member",
			zap.String("project_id", projectID.String()),
			zap.String("user_id", userID.String()),
			zap.String("event", "project_access_denied_not_member"),
		)
		return nil, appErrors.ErrNotProjectMember
	}

	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		logger.Warn("Project access denied, insufficient role",
			zap.String("project_id", projectID.String()),
			zap.String("user_id", userID.String()),
			zap.String("role", role.String()),
			zap.String("event", "project_access_denied_role"),
		)
		return nil, appErrors.ErrInsufficientRole
	}

	return &Access{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}, nil
}
