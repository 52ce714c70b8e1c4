package project

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines project persistence. Create and Delete span several
// tables and run in one transaction.
type Repository interface {
	CreateWithOwner(ctx context.Context, project *Project, owner *Membership) error
	GetByID(ctx context.Context, projectID uuid.UUID) (*Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ProjectWithRole, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, projectID uuid.UUID) error
}

// MembershipRepository is the store behind the membership registry. The
// (project, user) pair is unique at the store level.
type MembershipRepository interface {
	Create(ctx context.Context, membership *Membership) error
	Get(ctx context.Context, projectID, userID uuid.UUID) (*Membership, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Membership, error)
	UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role Role) error
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
}
