package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

// ProjectMembershipModel holds at most one row per (project, user).
type ProjectMembershipModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_user;index"`
	Role      string    `gorm:"type:varchar(50);not null;default:'member'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProjectMembershipModel) TableName() string {
	return "project_memberships"
}
