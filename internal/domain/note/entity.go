package note

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Content   string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
