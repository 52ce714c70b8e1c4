package postgres

import (
	"context"
	"errors"
	"fmt"
	domainTask "project-pilot/internal/domain/task"
	"project-pilot/internal/infrastructure/database/postgres/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository implements domainTask.Repository
type TaskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) domainTask.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domainTask.Task) error {
	now := time.Now()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domainTask.StatusTodo
	}

	if err := r.db.DB.WithContext(ctx).Create(toTaskModel(t)).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*domainTask.Task, error) {
	var dbModel models.TaskModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainTask.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return toTaskEntity(&dbModel), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, filter *domainTask.Filter) ([]*domainTask.Task, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("project_id = ?", projectID)

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", string(*filter.Status))
		}
		if filter.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filter.AssignedTo)
		}
	}

	var dbModels []models.TaskModel
	if err := query.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domainTask.Task, len(dbModels))
	for i := range dbModels {
		tasks[i] = toTaskEntity(&dbModels[i])
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domainTask.Task) error {
	t.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ? AND project_id = ?", t.ID, t.ProjectID).
		Updates(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"assigned_to": t.AssignedTo,
			"assigned_by": t.AssignedBy,
			"status":      string(t.Status),
			"updated_at":  t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainTask.ErrTaskNotFound
	}
	return nil
}

// Delete removes the task and its subtasks.
func (r *TaskRepository) Delete(ctx context.Context, projectID, taskID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND project_id = ?", taskID, projectID).Delete(&models.TaskModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainTask.ErrTaskNotFound
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&models.SubTaskModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		return nil
	})
}

func (r *TaskRepository) CreateSubTask(ctx context.Context, s *domainTask.SubTask) error {
	now := time.Now()
	s.ID = uuid.New()
	s.CreatedAt = now
	s.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toSubTaskModel(s)).Error; err != nil {
		return fmt.Errorf("failed to create subtask: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetSubTask(ctx context.Context, taskID, subTaskID uuid.UUID) (*domainTask.SubTask, error) {
	var dbModel models.SubTaskModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND task_id = ?", subTaskID, taskID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainTask.ErrSubTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}

	return toSubTaskEntity(&dbModel), nil
}

func (r *TaskRepository) ListSubTasks(ctx context.Context, taskID uuid.UUID) ([]*domainTask.SubTask, error) {
	var dbModels []models.SubTaskModel
	err := r.db.DB.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}

	subTasks := make([]*domainTask.SubTask, len(dbModels))
	for i := range dbModels {
		subTasks[i] = toSubTaskEntity(&dbModels[i])
	}
	return subTasks, nil
}

func (r *TaskRepository) UpdateSubTask(ctx context.Context, s *domainTask.SubTask) error {
	s.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.SubTaskModel{}).
		Where("id = ? AND task_id = ?", s.ID, s.TaskID).
		Updates(map[string]interface{}{
			"title":        s.Title,
			"is_completed": s.IsCompleted,
			"updated_at":   s.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update subtask: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainTask.ErrSubTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteSubTask(ctx context.Context, taskID, subTaskID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ? AND task_id = ?", subTaskID, taskID).
		Delete(&models.SubTaskModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete subtask: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainTask.ErrSubTaskNotFound
	}
	return nil
}

func toTaskModel(t *domainTask.Task) *models.TaskModel {
	return &models.TaskModel{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskEntity(m *models.TaskModel) *domainTask.Task {
	return &domainTask.Task{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Title:       m.Title,
		Description: m.Description,
		AssignedTo:  m.AssignedTo,
		AssignedBy:  m.AssignedBy,
		Status:      domainTask.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSubTaskModel(s *domainTask.SubTask) *models.SubTaskModel {
	return &models.SubTaskModel{
		ID:          s.ID,
		TaskID:      s.TaskID,
		Title:       s.Title,
		IsCompleted: s.IsCompleted,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSubTaskEntity(m *models.SubTaskModel) *domainTask.SubTask {
	return &domainTask.SubTask{
		ID:          m.ID,
		TaskID:      m.TaskID,
		Title:       m.Title,
		IsCompleted: m.IsCompleted,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
