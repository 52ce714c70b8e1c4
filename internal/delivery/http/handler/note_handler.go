package handler

import (
	"net/http"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/membership"
	"project-pilot/internal/usecase/note"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	service *note.Service
	gate    *membership.Gate
}

func NewNoteHandler(service *note.Service, gate *membership.Gate) *NoteHandler {
	return &NoteHandler{service: service, gate: gate}
}

func (h *NoteHandler) RegisterRoutes(project *gin.RouterGroup) {
	notes := project.Group("/notes")
	{
		notes.GET("", middleware.ProjectPermission(h.gate, anyMember...), h.ListNotes)
		notes.POST("", middleware.ProjectPermission(h.gate, adminOnly...), h.CreateNote)
		notes.GET("/:noteId", middleware.ProjectPermission(h.gate, anyMember...), h.GetNote)
		notes.PUT("/:noteId", middleware.ProjectPermission(h.gate, managers...), h.UpdateNote)
		notes.DELETE("/:noteId", middleware.ProjectPermission(h.gate, managers...), h.DeleteNote)
	}
}

func (h *NoteHandler) ListNotes(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	notes, err := h.service.ListNotes(c.Request.Context(), access.ProjectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notes fetched successfully", notes)
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}

	var req note.NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateNote(c.Request.Context(), access.ProjectID, access.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Note created successfully", resp)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	noteID, ok := uuidParam(c, "noteId", "note")
	if !ok {
		return
	}

	resp, err := h.service.GetNote(c.Request.Context(), access.ProjectID, noteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Note fetched successfully", resp)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	noteID, ok := uuidParam(c, "noteId", "note")
	if !ok {
		return
	}

	var req note.NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateNote(c.Request.Context(), access.ProjectID, noteID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Note updated successfully", resp)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	access, ok := projectAccess(c)
	if !ok {
		return
	}
	noteID, ok := uuidParam(c, "noteId", "note")
	if !ok {
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), access.ProjectID, noteID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Note deleted successfully", gin.H{})
}
