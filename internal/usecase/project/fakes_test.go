package project

import (
	"context"
	"sort"
	"sync"
	"time"

	domainProject "project-pilot/internal/domain/project"
	domainUser "project-pilot/internal/domain/user"

	"github.com/google/uuid"
)

// store backs both the project and membership fakes so cascades are visible
// to each other.
type store struct {
	mu          sync.Mutex
	projects    map[uuid.UUID]*domainProject.Project
	memberships []*domainProject.Membership
}

func newStore() *store {
	return &store{projects: make(map[uuid.UUID]*domainProject.Project)}
}

type memoryProjects struct{ *store }

func (s memoryProjects) CreateWithOwner(_ context.Context, p *domainProject.Project, owner *domainProject.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	owner.ID = uuid.New()
	owner.ProjectID = p.ID
	cp := *p
	s.projects[p.ID] = &cp
	ocp := *owner
	s.memberships = append(s.memberships, &ocp)
	return nil
}

func (s memoryProjects) GetByID(_ context.Context, id uuid.UUID) (*domainProject.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domainProject.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (s memoryProjects) ListForUser(_ context.Context, userID uuid.UUID) ([]*domainProject.ProjectWithRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domainProject.ProjectWithRole
	for _, m := range s.memberships {
		if m.UserID != userID {
			continue
		}
		var count int64
		for _, other := range s.memberships {
			if other.ProjectID == m.ProjectID {
				count++
			}
		}
		cp := *s.projects[m.ProjectID]
		result = append(result, &domainProject.ProjectWithRole{Project: &cp, Role: m.Role, MemberCount: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Project.Name < result[j].Project.Name })
	return result, nil
}

func (s memoryProjects) Update(_ context.Context, p *domainProject.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return domainProject.ErrProjectNotFound
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s memoryProjects) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return domainProject.ErrProjectNotFound
	}
	delete(s.projects, id)
	kept := s.memberships[:0]
	for _, m := range s.memberships {
		if m.ProjectID != id {
			kept = append(kept, m)
		}
	}
	s.memberships = kept
	return nil
}

type memoryMemberships struct{ *store }

func (s memoryMemberships) find(projectID, userID uuid.UUID) int {
	for i, m := range s.memberships {
		if m.ProjectID == projectID && m.UserID == userID {
			return i
		}
	}
	return -1
}

func (s memoryMemberships) Create(_ context.Context, m *domainProject.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(m.ProjectID, m.UserID) >= 0 {
		return domainProject.ErrMembershipExists
	}
	m.ID = uuid.New()
	cp := *m
	s.memberships = append(s.memberships, &cp)
	return nil
}

func (s memoryMemberships) Get(_ context.Context, projectID, userID uuid.UUID) (*domainProject.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(projectID, userID)
	if i < 0 {
		return nil, domainProject.ErrMembershipNotFound
	}
	cp := *s.memberships[i]
	return &cp, nil
}

func (s memoryMemberships) ListByProject(_ context.Context, projectID uuid.UUID) ([]*domainProject.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domainProject.Membership
	for _, m := range s.memberships {
		if m.ProjectID == projectID {
			cp := *m
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s memoryMemberships) UpdateRole(_ context.Context, projectID, userID uuid.UUID, role domainProject.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(projectID, userID)
	if i < 0 {
		return domainProject.ErrMembershipNotFound
	}
	s.memberships[i].Role = role
	return nil
}

func (s memoryMemberships) Delete(_ context.Context, projectID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(projectID, userID)
	if i < 0 {
		return domainProject.ErrMembershipNotFound
	}
	s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)
	return nil
}

// userDirectory serves the user lookups project use cases perform.
type userDirectory struct {
	domainUser.Repository
	users []*domainUser.User
}

func (d *userDirectory) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (d *userDirectory) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	for _, u := range d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (d *userDirectory) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domainUser.User, error) {
	var result []*domainUser.User
	for _, id := range ids {
		if u, err := d.GetByID(context.Background(), id); err == nil {
			result = append(result, u)
		}
	}
	return result, nil
}
