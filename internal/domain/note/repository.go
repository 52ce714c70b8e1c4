package note

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, projectID, noteID uuid.UUID) (*Note, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, projectID, noteID uuid.UUID) error
}
