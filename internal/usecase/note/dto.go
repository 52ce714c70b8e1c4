package note

import (
	domainNote "project-pilot/internal/domain/note"
	domainUser "project-pilot/internal/domain/user"
	"time"

	"github.com/google/uuid"
)

type NoteRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

type Author struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"_id"`
	ProjectID uuid.UUID `json:"project"`
	Content   string    `json:"content"`
	CreatedBy *Author   `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToNoteResponse renders n; author may be nil when the user no longer exists.
func ToNoteResponse(n *domainNote.Note, author *domainUser.User) *NoteResponse {
	resp := &NoteResponse{
		ID:        n.ID,
		ProjectID: n.ProjectID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if author != nil {
		resp.CreatedBy = &Author{
			ID:       author.ID,
			Username: author.Username,
			FullName: author.FullName,
			Avatar:   author.AvatarURL,
		}
	}
	return resp
}
