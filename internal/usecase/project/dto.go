package project

import (
	domainProject "project-pilot/internal/domain/project"
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// AddMemberRequest names the new member by user id or by email.
type AddMemberRequest struct {
	UserID *uuid.UUID `json:"userId" validate:"required_without=Email"`
	Email  string     `json:"email" validate:"omitempty,email"`
	Role   string     `json:"role" validate:"required,user_role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"newRole" validate:"required,user_role"`
}

type ProjectResponse struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProjectListItem struct {
	Project     *ProjectResponse   `json:"project"`
	Role        domainProject.Role `json:"role"`
	MemberCount int64              `json:"members"`
}

type MembershipResponse struct {
	ID        uuid.UUID          `json:"_id"`
	ProjectID uuid.UUID          `json:"project"`
	UserID    uuid.UUID          `json:"user"`
	Role      domainProject.Role `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

func ToProjectResponse(p *domainProject.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToMembershipResponse(m *domainProject.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
