package task

import (
	domainTask "project-pilot/internal/domain/task"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	AssignedTo  uuid.UUID `json:"assignedTo" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,task_status"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Status      *string    `json:"status" validate:"omitempty,task_status"`
}

type ListTasksQuery struct {
	Status     string `form:"status" validate:"omitempty,task_status"`
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
}

type CreateSubTaskRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type UpdateSubTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	IsCompleted *bool   `json:"isCompleted"`
}

type TaskResponse struct {
	ID          uuid.UUID         `json:"_id"`
	ProjectID   uuid.UUID         `json:"project"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	AssignedTo  uuid.UUID         `json:"assignedTo"`
	AssignedBy  uuid.UUID         `json:"assignedBy"`
	Status      domainTask.Status `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type TaskDetailResponse struct {
	*TaskResponse
	SubTasks []*SubTaskResponse `json:"subtasks"`
}

type SubTaskResponse struct {
	ID          uuid.UUID `json:"_id"`
	TaskID      uuid.UUID `json:"task"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToTaskResponse(t *domainTask.Task) *TaskResponse {
	return &TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToSubTaskResponse(s *domainTask.SubTask) *SubTaskResponse {
	return &SubTaskResponse{
		ID:          s.ID,
		TaskID:      s.TaskID,
		Title:       s.Title,
		IsCompleted: s.IsCompleted,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
