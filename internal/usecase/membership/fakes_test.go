package membership

import (
	"context"
	"sync"
	"time"

	domainProject "project-pilot/internal/domain/project"
	domainUser "project-pilot/internal/domain/user"

	"github.com/google/uuid"
)

type membershipKey struct {
	project uuid.UUID
	user    uuid.UUID
}

// memoryMemberships mimics the unique (project_id, user_id) index.
type memoryMemberships struct {
	mu   sync.Mutex
	rows map[membershipKey]*domainProject.Membership
}

func newMemoryMemberships() *memoryMemberships {
	return &memoryMemberships{rows: make(map[membershipKey]*domainProject.Membership)}
}

func (m *memoryMemberships) Create(_ context.Context, ms *domainProject.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := membershipKey{ms.ProjectID, ms.UserID}
	if _, ok := m.rows[key]; ok {
		return domainProject.ErrMembershipExists
	}
	ms.ID = uuid.New()
	ms.CreatedAt = time.Now()
	cp := *ms
	m.rows[key] = &cp
	return nil
}

func (m *memoryMemberships) Get(_ context.Context, projectID, userID uuid.UUID) (*domainProject.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[membershipKey{projectID, userID}]
	if !ok {
		return nil, domainProject.ErrMembershipNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memoryMemberships) ListByProject(_ context.Context, projectID uuid.UUID) ([]*domainProject.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domainProject.Membership
	for key, row := range m.rows {
		if key.project == projectID {
			cp := *row
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *memoryMemberships) UpdateRole(_ context.Context, projectID, userID uuid.UUID, role domainProject.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[membershipKey{projectID, userID}]
	if !ok {
		return domainProject.ErrMembershipNotFound
	}
	row.Role = role
	return nil
}

func (m *memoryMemberships) Delete(_ context.Context, projectID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := membershipKey{projectID, userID}
	if _, ok := m.rows[key]; !ok {
		return domainProject.ErrMembershipNotFound
	}
	delete(m.rows, key)
	return nil
}

// userDirectory serves the user lookups the registry performs. Other
// repository methods are not used here.
type userDirectory struct {
	domainUser.Repository
	users map[uuid.UUID]*domainUser.User
}

func newUserDirectory(users ...*domainUser.User) *userDirectory {
	d := &userDirectory{users: make(map[uuid.UUID]*domainUser.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *userDirectory) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return u, nil
}

func (d *userDirectory) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domainUser.User, error) {
	var result []*domainUser.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func newUser(username string) *domainUser.User {
	return &domainUser.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
}
