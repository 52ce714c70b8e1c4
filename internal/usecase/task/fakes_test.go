package task

import (
	"context"
	"sync"
	"time"

	domainProject "project-pilot/internal/domain/project"
	domainTask "project-pilot/internal/domain/task"

	"github.com/google/uuid"
)

type memoryTasks struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]*domainTask.Task
	subTasks map[uuid.UUID]*domainTask.SubTask
}

func newMemoryTasks() *memoryTasks {
	return &memoryTasks{
		tasks:    make(map[uuid.UUID]*domainTask.Task),
		subTasks: make(map[uuid.UUID]*domainTask.SubTask),
	}
}

func (r *memoryTasks) Create(_ context.Context, t *domainTask.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memoryTasks) GetByID(_ context.Context, projectID, taskID uuid.UUID) (*domainTask.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, domainTask.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memoryTasks) ListByProject(_ context.Context, projectID uuid.UUID, filter *domainTask.Filter) ([]*domainTask.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domainTask.Task
	for _, t := range r.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if filter != nil && filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter != nil && filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	return result, nil
}

func (r *memoryTasks) Update(_ context.Context, t *domainTask.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return domainTask.ErrTaskNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memoryTasks) Delete(_ context.Context, projectID, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return domainTask.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	for id, st := range r.subTasks {
		if st.TaskID == taskID {
			delete(r.subTasks, id)
		}
	}
	return nil
}

func (r *memoryTasks) CreateSubTask(_ context.Context, st *domainTask.SubTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st.ID = uuid.New()
	cp := *st
	r.subTasks[st.ID] = &cp
	return nil
}

func (r *memoryTasks) GetSubTask(_ context.Context, taskID, subTaskID uuid.UUID) (*domainTask.SubTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.subTasks[subTaskID]
	if !ok || st.TaskID != taskID {
		return nil, domainTask.ErrSubTaskNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *memoryTasks) ListSubTasks(_ context.Context, taskID uuid.UUID) ([]*domainTask.SubTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domainTask.SubTask
	for _, st := range r.subTasks {
		if st.TaskID == taskID {
			cp := *st
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *memoryTasks) UpdateSubTask(_ context.Context, st *domainTask.SubTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subTasks[st.ID]; !ok {
		return domainTask.ErrSubTaskNotFound
	}
	cp := *st
	r.subTasks[st.ID] = &cp
	return nil
}

func (r *memoryTasks) DeleteSubTask(_ context.Context, taskID, subTaskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.subTasks[subTaskID]
	if !ok || st.TaskID != taskID {
		return domainTask.ErrSubTaskNotFound
	}
	delete(r.subTasks, subTaskID)
	return nil
}

// staticMemberships answers role lookups from a fixed table.
type staticMemberships struct {
	domainProject.MembershipRepository
	roles map[[2]uuid.UUID]domainProject.Role
}

func (m *staticMemberships) add(projectID, userID uuid.UUID, role domainProject.Role) {
	m.roles[[2]uuid.UUID{projectID, userID}] = role
}

func (m *staticMemberships) Get(_ context.Context, projectID, userID uuid.UUID) (*domainProject.Membership, error) {
	role, ok := m.roles[[2]uuid.UUID{projectID, userID}]
	if !ok {
		return nil, domainProject.ErrMembershipNotFound
	}
	return &domainProject.Membership{ProjectID: projectID, UserID: userID, Role: role}, nil
}
