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

// MembershipRepository implements domainProject.MembershipRepository. The
// idx_project_user unique index is the authoritative duplicate guard.
type MembershipRepository struct {
	db *DB
}

func NewMembershipRepository(db *DB) domainProject.MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m *domainProject.Membership) error {
	now := time.Now()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toMembershipModel(m)).Error; err != nil {
		if isUniqueViolation(err) {
			return domainProject.ErrMembershipExists
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, projectID, userID uuid.UUID) (*domainProject.Membership, error) {
	var dbModel models.ProjectMembershipModel
	err := r.db.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainProject.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return toMembershipEntity(&dbModel), nil
}

func (r *MembershipRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domainProject.Membership, error) {
	var dbModels []models.ProjectMembershipModel
	err := r.db.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	memberships := make([]*domainProject.Membership, len(dbModels))
	for i := range dbModels {
		memberships[i] = toMembershipEntity(&dbModels[i])
	}
	return memberships, nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role domainProject.Role) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ProjectMembershipModel{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Updates(map[string]interface{}{
			"role":       string(role),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainProject.ErrMembershipNotFound
	}

	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMembershipModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainProject.ErrMembershipNotFound
	}

	return nil
}

func toMembershipModel(m *domainProject.Membership) *models.ProjectMembershipModel {
	return &models.ProjectMembershipModel{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMembershipEntity(m *models.ProjectMembershipModel) *domainProject.Membership {
	return &domainProject.Membership{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      domainProject.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
