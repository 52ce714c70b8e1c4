package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository scopes every task lookup by project so a task id from another
// project is never found.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, filter *Filter) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, projectID, taskID uuid.UUID) error

	CreateSubTask(ctx context.Context, subTask *SubTask) error
	GetSubTask(ctx context.Context, taskID, subTaskID uuid.UUID) (*SubTask, error)
	ListSubTasks(ctx context.Context, taskID uuid.UUID) ([]*SubTask, error)
	UpdateSubTask(ctx context.Context, subTask *SubTask) error
	DeleteSubTask(ctx context.Context, taskID, subTaskID uuid.UUID) error
}
