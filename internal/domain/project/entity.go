package project

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within one project.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProjectAdmin Role = "project_admin"
	RoleMember       Role = "member"
)

// AvailableRoles lists every role; routes open to any member use it.
var AvailableRoles = []Role{RoleAdmin, RoleProjectAdmin, RoleMember}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectAdmin, RoleMember:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership binds one user to one role within one project.
type Membership struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectWithRole is a project as seen by one of its members.
type ProjectWithRole struct {
	Project     *Project
	Role        Role
	MemberCount int64
}
