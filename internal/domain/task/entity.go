package task

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task belongs to exactly one project. AssignedTo must be a member of that
// project whenever the task is written.
type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	AssignedTo  uuid.UUID
	AssignedBy  uuid.UUID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SubTask struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	Title       string
	IsCompleted bool
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows a project's task list.
type Filter struct {
	Status     *Status
	AssignedTo *uuid.UUID
}
