package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	AssignedTo  uuid.UUID `gorm:"type:uuid;not null;index"`
	AssignedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Status      string    `gorm:"type:varchar(30);not null;default:'todo';index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

type SubTaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	IsCompleted bool      `gorm:"default:false;not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (SubTaskModel) TableName() string {
	return "subtasks"
}
