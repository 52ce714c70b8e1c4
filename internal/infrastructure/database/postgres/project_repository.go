package postgres

import (
	"context"
	"errors"
	"fmt"
	domainProject "project-pilot/internal/domain/project"
	"project-pilot/internal/infrastructure/database/postgres/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository implements domainProject.Repository
type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) domainProject.Repository {
	return &ProjectRepository{db: db}
}

// CreateWithOwner inserts the project and the creator's membership together.
func (r *ProjectRepository) CreateWithOwner(ctx context.Context, p *domainProject.Project, owner *domainProject.Membership) error {
	now := time.Now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	owner.ID = uuid.New()
	owner.ProjectID = p.ID
	owner.CreatedAt = now
	owner.UpdatedAt = now

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toProjectModel(p)).Error; err != nil {
			return err
		}
		return tx.Create(toMembershipModel(owner)).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, projectID uuid.UUID) (*domainProject.Project, error) {
	var dbModel models.ProjectModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", projectID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainProject.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return toProjectEntity(&dbModel), nil
}

type projectWithRoleRow struct {
	models.ProjectModel
	MemberRole  string
	MemberCount int64
}

// ListForUser returns every project the user belongs to with the user's role
// and the member count.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domainProject.ProjectWithRole, error) {
	var rows []projectWithRoleRow
	err := r.db.DB.WithContext(ctx).
		Table("projects").
		Select(`projects.*,
				pm.role AS member_role,
				(SELECT COUNT(*) FROM project_memberships c WHERE c.project_id = projects.id) AS member_count`).
		Joins("INNER JOIN project_memberships pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID).
		Order("projects.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	result := make([]*domainProject.ProjectWithRole, len(rows))
	for i := range rows {
		result[i] = &domainProject.ProjectWithRole{
			Project:     toProjectEntity(&rows[i].ProjectModel),
			Role:        domainProject.Role(rows[i].MemberRole),
			MemberCount: rows[i].MemberCount,
		}
	}
	return result, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domainProject.Project) error {
	p.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"updated_at":  p.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainProject.ErrProjectNotFound
	}

	return nil
}

// Delete removes the project and everything scoped to it.
func (r *ProjectRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.ProjectModel{}, "id = ?", projectID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainProject.ErrProjectNotFound
		}

		taskIDs := tx.Model(&models.TaskModel{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.SubTaskModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.TaskModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.NoteModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete notes: %w", err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMembershipModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		return nil
	})
}

func toProjectModel(p *domainProject.Project) *models.ProjectModel {
	return &models.ProjectModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectEntity(m *models.ProjectModel) *domainProject.Project {
	return &domainProject.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
