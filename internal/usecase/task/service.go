package task

import (
	"context"
	"errors"
	domainTask "project-pilot/internal/domain/task"
	"project-pilot/internal/logger"
	"project-pilot/internal/usecase/membership"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements task and subtask use cases. Every method takes the
// project id the gate admitted the caller to, and never reaches outside it.
type Service struct {
	taskRepo domainTask.Repository
	registry *membership.Registry
}

func NewService(taskRepo domainTask.Repository, registry *membership.Registry) *Service {
	return &Service{
		taskRepo: taskRepo,
		registry: registry,
	}
}

func (s *Service) CreateTask(ctx context.Context, projectID, actorID uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error) {
	req.Title = utils.SanitizeString(req.Title)
	req.Description = utils.SanitizeText(req.Description)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	if err := s.ensureAssignable(ctx, projectID, req.AssignedTo); err != nil {
		return nil, err
	}

	status := domainTask.StatusTodo
	if req.Status != "" {
		status = domainTask.Status(req.Status)
	}

	t := &domainTask.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  actorID,
		Status:      status,
	}
	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("Task created",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", t.ID.String()),
		zap.String("assigned_to", t.AssignedTo.String()),
		zap.String("event", "task_created"),
	)

	return ToTaskResponse(t), nil
}

func (s *Service) ListTasks(ctx context.Context, projectID uuid.UUID, query *ListTasksQuery) ([]*TaskResponse, error) {
	filter := &domainTask.Filter{}
	if query != nil {
		if err := utils.ValidateStruct(query); err != nil {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
		}
		if query.Status != "" {
			status := domainTask.Status(query.Status)
			filter.Status = &status
		}
		if query.AssignedTo != "" {
			assignee := uuid.MustParse(query.AssignedTo)
			filter.AssignedTo = &assignee
		}
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = ToTaskResponse(t)
	}
	return responses, nil
}

// GetTask returns the task with its subtasks.
func (s *Service) GetTask(ctx context.Context, projectID, taskID uuid.UUID) (*TaskDetailResponse, error) {
	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	subTasks, err := s.taskRepo.ListSubTasks(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	detail := &TaskDetailResponse{
		TaskResponse: ToTaskResponse(t),
		SubTasks:     make([]*SubTaskResponse, len(subTasks)),
	}
	for i, st := range subTasks {
		detail.SubTasks[i] = ToSubTaskResponse(st)
	}
	return detail, nil
}

func (s *Service) UpdateTask(ctx context.Context, projectID, taskID, actorID uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	req.Title = utils.SanitizeOptional(req.Title, utils.SanitizeString)
	req.Description = utils.SanitizeOptional(req.Description, utils.SanitizeText)
	if req.Title == nil && req.Description == nil && req.AssignedTo == nil && req.Status == nil {
		return nil, appErrors.ErrNothingToUpdate
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = domainTask.Status(*req.Status)
	}
	if req.AssignedTo != nil && *req.AssignedTo != t.AssignedTo {
		if err := s.ensureAssignable(ctx, projectID, *req.AssignedTo); err != nil {
			return nil, err
		}
		t.AssignedTo = *req.AssignedTo
		t.AssignedBy = actorID
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, mapTaskError(err)
	}

	logger.Info("Task updated",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", t.ID.String()),
		zap.String("event", "task_updated"),
	)

	return ToTaskResponse(t), nil
}

// DeleteTask removes the task and its subtasks.
func (s *Service) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, projectID, taskID); err != nil {
		return mapTaskError(err)
	}

	logger.Info("Task deleted",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", taskID.String()),
		zap.String("event", "task_deleted"),
	)

	return nil
}

func (s *Service) CreateSubTask(ctx context.Context, projectID, taskID, actorID uuid.UUID, req *CreateSubTaskRequest) (*SubTaskResponse, error) {
	req.Title = utils.SanitizeString(req.Title)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	st := &domainTask.SubTask{
		TaskID:    t.ID,
		Title:     req.Title,
		CreatedBy: actorID,
	}
	if err := s.taskRepo.CreateSubTask(ctx, st); err != nil {
		return nil, err
	}

	return ToSubTaskResponse(st), nil
}

func (s *Service) ListSubTasks(ctx context.Context, projectID, taskID uuid.UUID) ([]*SubTaskResponse, error) {
	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	subTasks, err := s.taskRepo.ListSubTasks(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*SubTaskResponse, len(subTasks))
	for i, st := range subTasks {
		responses[i] = ToSubTaskResponse(st)
	}
	return responses, nil
}

func (s *Service) UpdateSubTask(ctx context.Context, projectID, taskID, subTaskID uuid.UUID, req *UpdateSubTaskRequest) (*SubTaskResponse, error) {
	req.Title = utils.SanitizeOptional(req.Title, utils.SanitizeString)
	if req.Title == nil && req.IsCompleted == nil {
		return nil, appErrors.ErrNothingToUpdate
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	st, err := s.taskRepo.GetSubTask(ctx, t.ID, subTaskID)
	if err != nil {
		return nil, mapTaskError(err)
	}

	if req.Title != nil {
		st.Title = *req.Title
	}
	if req.IsCompleted != nil {
		st.IsCompleted = *req.IsCompleted
	}

	if err := s.taskRepo.UpdateSubTask(ctx, st); err != nil {
		return nil, mapTaskError(err)
	}

	return ToSubTaskResponse(st), nil
}

func (s *Service) DeleteSubTask(ctx context.Context, projectID, taskID, subTaskID uuid.UUID) error {
	t, err := s.getTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.DeleteSubTask(ctx, t.ID, subTaskID); err != nil {
		return mapTaskError(err)
	}
	return nil
}

func (s *Service) getTask(ctx context.Context, projectID, taskID uuid.UUID) (*domainTask.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, projectID, taskID)
	if err != nil {
		return nil, mapTaskError(err)
	}
	return t, nil
}

// ensureAssignable rejects assignees without a membership in the project.
func (s *Service) ensureAssignable(ctx context.Context, projectID, userID uuid.UUID) error {
	_, found, err := s.registry.ResolveRole(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !found {
		return appErrors.ErrAssigneeNotMember
	}
	return nil
}

func mapTaskError(err error) error {
	switch {
	case errors.Is(err, domainTask.ErrTaskNotFound):
		return appErrors.ErrTaskNotFound
	case errors.Is(err, domainTask.ErrSubTaskNotFound):
		return appErrors.ErrSubTaskNotFound
	default:
		return err
	}
}
