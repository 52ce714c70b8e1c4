package project

import (
	"context"
	"errors"
	domainProject "project-pilot/internal/domain/project"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/logger"
	"project-pilot/internal/usecase/membership"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements project use cases. Authorization is done by the gate
// before any of these methods run.
type Service struct {
	projectRepo domainProject.Repository
	userRepo    domainUser.Repository
	registry    *membership.Registry
}

func NewService(projectRepo domainProject.Repository, userRepo domainUser.Repository, registry *membership.Registry) *Service {
	return &Service{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		registry:    registry,
	}
}

func (s *Service) ListProjects(ctx context.Context, userID uuid.UUID) ([]*ProjectListItem, error) {
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]*ProjectListItem, len(projects))
	for i, p := range projects {
		items[i] = &ProjectListItem{
			Project:     ToProjectResponse(p.Project),
			Role:        p.Role,
			MemberCount: p.MemberCount,
		}
	}
	return items, nil
}

// CreateProject stores the project and makes the creator its admin.
func (s *Service) CreateProject(ctx context.Context, userID uuid.UUID, req *CreateProjectRequest) (*ProjectResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Description = utils.SanitizeText(req.Description)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	p := &domainProject.Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	owner := &domainProject.Membership{
		UserID: userID,
		Role:   domainProject.RoleAdmin,
	}

	if err := s.projectRepo.CreateWithOwner(ctx, p, owner); err != nil {
		return nil, err
	}

	logger.Info("Project created",
		zap.String("project_id", p.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("event", "project_created"),
	)

	return ToProjectResponse(p), nil
}

func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, mapProjectError(err)
	}
	return ToProjectResponse(p), nil
}

func (s *Service) UpdateProject(ctx context.Context, projectID uuid.UUID, req *UpdateProjectRequest) (*ProjectResponse, error) {
	req.Name = utils.SanitizeOptional(req.Name, utils.SanitizeString)
	req.Description = utils.SanitizeOptional(req.Description, utils.SanitizeText)
	if req.Name == nil && req.Description == nil {
		return nil, appErrors.ErrNothingToUpdate
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, mapProjectError(err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}

	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, mapProjectError(err)
	}

	logger.Info("Project updated",
		zap.String("project_id", p.ID.String()),
		zap.String("event", "project_updated"),
	)

	return ToProjectResponse(p), nil
}

// DeleteProject removes the project with its tasks, subtasks, notes and memberships.
func (s *Service) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return mapProjectError(err)
	}

	logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("event", "project_deleted"),
	)

	return nil
}

// AddMember adds the user named by id or email to the project.
func (s *Service) AddMember(ctx context.Context, projectID uuid.UUID, req *AddMemberRequest) (*MembershipResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	userID, err := s.resolveUserID(ctx, req)
	if err != nil {
		return nil, err
	}

	m, err := s.registry.AddMember(ctx, projectID, userID, domainProject.Role(req.Role))
	if err != nil {
		return nil, err
	}

	return ToMembershipResponse(m), nil
}

func (s *Service) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*membership.Member, error) {
	return s.registry.ListMembers(ctx, projectID)
}

func (s *Service) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, req *UpdateMemberRoleRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.ErrInvalidRole
	}
	return s.registry.UpdateRole(ctx, projectID, userID, domainProject.Role(req.Role))
}

func (s *Service) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.registry.RemoveMember(ctx, projectID, userID)
}

func (s *Service) resolveUserID(ctx context.Context, req *AddMemberRequest) (uuid.UUID, error) {
	if req.UserID != nil {
		return *req.UserID, nil
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return uuid.Nil, appErrors.ErrUserNotFound
		}
		return uuid.Nil, err
	}
	return u.ID, nil
}

func mapProjectError(err error) error {
	if errors.Is(err, domainProject.ErrProjectNotFound) {
		return appErrors.ErrProjectNotFound
	}
	return err
}
