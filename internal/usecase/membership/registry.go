package membership

import (
	"context"
	"errors"
	"fmt"
	domainProject "project-pilot/internal/domain/project"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/logger"
	appErrors "project-pilot/pkg/errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry owns the (project, user) -> role relation. A user without a
// membership row has no role in the project.
type Registry struct {
	memberships domainProject.MembershipRepository
	users       domainUser.Repository
}

func NewRegistry(memberships domainProject.MembershipRepository, users domainUser.Repository) *Registry {
	return &Registry{
		memberships: memberships,
		users:       users,
	}
}

// ResolveRole returns the user's role in the project and whether a membership exists.
func (r *Registry) ResolveRole(ctx context.Context, projectID, userID uuid.UUID) (domainProject.Role, bool, error) {
	m, err := r.memberships.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domainProject.ErrMembershipNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Role, true, nil
}

func (r *Registry) AddMember(ctx context.Context, projectID, userID uuid.UUID, role domainProject.Role) (*domainProject.Membership, error) {
	if !role.IsValid() {
		return nil, appErrors.ErrInvalidRole
	}

	if _, err := r.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	if _, found, err := r.ResolveRole(ctx, projectID, userID); err != nil {
		return nil, err
	} else if found {
		return nil, appErrors.ErrMemberAlreadyExists
	}

	m := &domainProject.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := r.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, domainProject.ErrMembershipExists) {
			return nil, appErrors.ErrMemberAlreadyExists
		}
		return nil, err
	}

	logger.Info("Project member added",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role.String()),
		zap.String("event", "member_added"),
	)

	return m, nil
}

func (r *Registry) UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role domainProject.Role) error {
	if !role.IsValid() {
		return appErrors.ErrInvalidRole
	}

	if err := r.memberships.UpdateRole(ctx, projectID, userID, role); err != nil {
		return mapMembershipError(err)
	}

	logger.Info("Project member role updated",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role.String()),
		zap.String("event", "member_role_updated"),
	)

	return nil
}

func (r *Registry) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := r.memberships.Delete(ctx, projectID, userID); err != nil {
		return mapMembershipError(err)
	}

	logger.Info("Project member removed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("event", "member_removed"),
	)

	return nil
}

// Member is a membership with the user's public profile resolved.
type Member struct {
	User      MemberUser         `json:"user"`
	ProjectID uuid.UUID          `json:"project"`
	Role      domainProject.Role `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

type MemberUser struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
}

// ListMembers returns the project's members with their user profiles. Rows
// whose user no longer exists are skipped.
func (r *Registry) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*Member, error) {
	memberships, err := r.memberships.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}

	users, err := r.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve members: %w", err)
	}
	byID := make(map[uuid.UUID]*domainUser.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	members := make([]*Member, 0, len(memberships))
	for _, m := range memberships {
		u, ok := byID[m.UserID]
		if !ok {
			continue
		}
		members = append(members, &Member{
			User: MemberUser{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.FullName,
				Email:    u.Email,
				Avatar:   u.AvatarURL,
			},
			ProjectID: m.ProjectID,
			Role:      m.Role,
			CreatedAt: m.CreatedAt,
		})
	}

	return members, nil
}

func mapMembershipError(err error) error {
	switch {
	case errors.Is(err, domainProject.ErrMembershipNotFound):
		return appErrors.ErrMembershipNotFound
	case errors.Is(err, domainProject.ErrMembershipExists):
		return appErrors.ErrMemberAlreadyExists
	default:
		return err
	}
}
