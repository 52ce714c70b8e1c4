package handler

import (
	"net/http"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/membership"
	"project-pilot/internal/usecase/task"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	service *task.Service
	gate    *membership.Gate
}

func NewTaskHandler(service *task.Service, gate *membership.Gate) *TaskHandler {
	return &TaskHandler{service: service, gate: gate}
}

// RegisterRoutes mounts tasks and subtasks under a /projects/:projectId group.
func (h *TaskHandler) RegisterRoutes(project *gin.RouterGroup) {
	tasks := project.Group("/tasks")
	{
		tasks.GET("", middleware.ProjectPermission(h.gate, anyMember...), h.ListTasks)
		tasks.POST("", middleware.ProjectPermission(h.gate, anyMember...), h.CreateTask)
		tasks.GET("/:taskId", middleware.ProjectPermission(h.gate, anyMember...), h.GetTask)
		tasks.PUT("/:taskId", middleware.ProjectPermission(h.gate, managers...), h.UpdateTask)
		tasks.DELETE("/:taskId", middleware.ProjectPermission(h.gate, managers...), h.DeleteTask)

		tasks.GET("/:taskId/subtasks", middleware.ProjectPermission(h.gate, anyMember...), h.ListSubTasks)
		tasks.POST("/:taskId/subtasks", middleware.ProjectPermission(h.gate, managers...), h.CreateSubTask)
		tasks.PATCH("/:taskId/subtasks/:subTaskId", middleware.ProjectPermission(h.gate, anyMember...), h.UpdateSubTask)
		tasks.DELETE("/:taskId/subtasks/:subTaskId", middleware.ProjectPermission(h.gate, managers...), h.DeleteSubTask)
	}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	var query task.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), access.ProjectID, &query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tasks fetched successfully", tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateTask(c.Request.Context(), access.ProjectID, access.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Task created successfully", resp)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	resp, err := h.service.GetTask(c.Request.Context(), access.ProjectID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task fetched successfully", resp)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateTask(c.Request.Context(), access.ProjectID, taskID, access.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task updated successfully", resp)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), access.ProjectID, taskID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task deleted successfully", gin.H{})
}

func (h *TaskHandler) ListSubTasks(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	resp, err := h.service.ListSubTasks(c.Request.Context(), access.ProjectID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subtasks fetched successfully", resp)
}

func (h *TaskHandler) CreateSubTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	var req task.CreateSubTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateSubTask(c.Request.Context(), access.ProjectID, taskID, access.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Subtask created successfully", resp)
}

func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}
	subTaskID, ok := uuidParam(c, "subTaskId", "subtask")
	if !ok {
		return
	}

	var req task.UpdateSubTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateSubTask(c.Request.Context(), access.ProjectID, taskID, subTaskID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subtask updated successfully", resp)
}

func (h *TaskHandler) DeleteSubTask(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}
	subTaskID, ok := uuidParam(c, "subTaskId", "subtask")
	if !ok {
		return
	}

	if err := h.service.DeleteSubTask(c.Request.Context(), access.ProjectID, taskID, subTaskID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subtask deleted successfully", gin.H{})
}
