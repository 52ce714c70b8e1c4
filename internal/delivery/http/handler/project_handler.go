package handler

import (
	"net/http"
	domainProject "project-pilot/internal/domain/project"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/membership"
	"project-pilot/internal/usecase/project"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Role lists used by the project routes. Every route names its list.
var (
	anyMember = domainProject.AvailableRoles
	managers  = []domainProject.Role{domainProject.RoleAdmin, domainProject.RoleProjectAdmin}
	adminOnly = []domainProject.Role{domainProject.RoleAdmin}
)

type ProjectHandler struct {
	service *project.Service
	gate    *membership.Gate
}

func NewProjectHandler(service *project.Service, gate *membership.Gate) *ProjectHandler {
	return &ProjectHandler{service: service, gate: gate}
}

// RegisterRoutes mounts /projects and returns the /projects/:projectId group
// for the task and note handlers.
func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) *gin.RouterGroup {
	projects := router.Group("/projects")
	projects.GET("", h.ListProjects)
	projects.POST("", h.CreateProject)

	scoped := projects.Group("/:" + middleware.ProjectIDParam)
	{
		scoped.GET("", h.permit(anyMember), h.GetProject)
		scoped.PUT("", h.permit(managers), h.UpdateProject)
		scoped.DELETE("", h.permit(adminOnly), h.DeleteProject)

		scoped.GET("/members", h.permit(managers), h.ListMembers)
		scoped.POST("/members", h.permit(managers), h.AddMember)
		scoped.PUT("/members/:userId", h.permit(adminOnly), h.UpdateMemberRole)
		scoped.DELETE("/members/:userId", h.permit(adminOnly), h.RemoveMember)
	}

	return scoped
}

func (h *ProjectHandler) permit(roles []domainProject.Role) gin.HandlerFunc {
	return middleware.ProjectPermission(h.gate, roles...)
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Projects fetched successfully", projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req project.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateProject(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Project created successfully", resp)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	resp, err := h.service.GetProject(c.Request.Context(), access.ProjectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project fetched successfully", resp)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateProject(c.Request.Context(), access.ProjectID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project updated successfully", resp)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), access.ProjectID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project deleted successfully", gin.H{})
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), access.ProjectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project members fetched", members)
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	var req project.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddMember(c.Request.Context(), access.ProjectID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Project member added successfully", resp)
}

func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", "user")
	if !ok {
		return
	}

	var req project.UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), access.ProjectID, userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project member role updated successfully", gin.H{"role": req.Role})
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), access.ProjectID, userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Project member removed successfully", gin.H{})
}
