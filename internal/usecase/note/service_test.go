package note

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	domainNote "project-pilot/internal/domain/note"
	domainUser "project-pilot/internal/domain/user"
	appErrors "project-pilot/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryNotes struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*domainNote.Note
	clock time.Time
}

func newMemoryNotes() *memoryNotes {
	return &memoryNotes{notes: make(map[uuid.UUID]*domainNote.Note), clock: time.Now()}
}

func (r *memoryNotes) Create(_ context.Context, n *domainNote.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	n.ID = uuid.New()
	n.CreatedAt = r.clock
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memoryNotes) GetByID(_ context.Context, projectID, noteID uuid.UUID) (*domainNote.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.ProjectID != projectID {
		return nil, domainNote.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memoryNotes) ListByProject(_ context.Context, projectID uuid.UUID) ([]*domainNote.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domainNote.Note
	for _, n := range r.notes {
		if n.ProjectID == projectID {
			cp := *n
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryNotes) Update(_ context.Context, n *domainNote.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[n.ID]; !ok {
		return domainNote.ErrNoteNotFound
	}
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memoryNotes) Delete(_ context.Context, projectID, noteID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.ProjectID != projectID {
		return domainNote.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

type userDirectory struct {
	domainUser.Repository
	users map[uuid.UUID]*domainUser.User
}

func (d *userDirectory) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, domainUser.ErrUserNotFound
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

func TestNotes(t *testing.T) {
	alice := &domainUser.User{ID: uuid.New(), Username: "alice", FullName: "Alice"}
	svc := NewService(newMemoryNotes(), &userDirectory{users: map[uuid.UUID]*domainUser.User{alice.ID: alice}})
	ctx := context.Background()
	projectID := uuid.New()

	first, err := svc.CreateNote(ctx, projectID, alice.ID, &NoteRequest{Content: "kickoff"})
	require.NoError(t, err)
	require.NotNil(t, first.CreatedBy)
	assert.Equal(t, "alice", first.CreatedBy.Username)

	second, err := svc.CreateNote(ctx, projectID, uuid.New(), &NoteRequest{Content: "retro"})
	require.NoError(t, err)
	assert.Nil(t, second.CreatedBy, "missing author renders as null")

	_, err = svc.CreateNote(ctx, projectID, alice.ID, &NoteRequest{Content: "   "})
	assert.Equal(t, appErrors.KindBadRequest, appErrors.KindOf(err))

	notes, err := svc.ListNotes(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID, "newest first")
	assert.Equal(t, "alice", notes[1].CreatedBy.Username)

	updated, err := svc.UpdateNote(ctx, projectID, first.ID, &NoteRequest{Content: "kickoff v2"})
	require.NoError(t, err)
	assert.Equal(t, "kickoff v2", updated.Content)

	_, err = svc.GetNote(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, appErrors.ErrNoteNotFound)
	_, err = svc.UpdateNote(ctx, uuid.New(), first.ID, &NoteRequest{Content: "x"})
	assert.ErrorIs(t, err, appErrors.ErrNoteNotFound)

	require.NoError(t, svc.DeleteNote(ctx, projectID, first.ID))
	assert.ErrorIs(t, svc.DeleteNote(ctx, projectID, first.ID), appErrors.ErrNoteNotFound)
}
