package note

import (
	"context"
	"errors"
	"fmt"
	domainNote "project-pilot/internal/domain/note"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/logger"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	noteRepo domainNote.Repository
	userRepo domainUser.Repository
}

func NewService(noteRepo domainNote.Repository, userRepo domainUser.Repository) *Service {
	return &Service{
		noteRepo: noteRepo,
		userRepo: userRepo,
	}
}

// ListNotes returns the project's notes, newest first, with authors resolved.
func (s *Service) ListNotes(ctx context.Context, projectID uuid.UUID) ([]*NoteResponse, error) {
	notes, err := s.noteRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(notes))
	seen := make(map[uuid.UUID]struct{}, len(notes))
	for _, n := range notes {
		if _, ok := seen[n.CreatedBy]; !ok {
			seen[n.CreatedBy] = struct{}{}
			ids = append(ids, n.CreatedBy)
		}
	}

	authors, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve note authors: %w", err)
	}
	byID := make(map[uuid.UUID]*domainUser.User, len(authors))
	for _, u := range authors {
		byID[u.ID] = u
	}

	responses := make([]*NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = ToNoteResponse(n, byID[n.CreatedBy])
	}
	return responses, nil
}

func (s *Service) GetNote(ctx context.Context, projectID, noteID uuid.UUID) (*NoteResponse, error) {
	n, err := s.noteRepo.GetByID(ctx, projectID, noteID)
	if err != nil {
		return nil, mapNoteError(err)
	}
	return s.withAuthor(ctx, n)
}

func (s *Service) CreateNote(ctx context.Context, projectID, authorID uuid.UUID, req *NoteRequest) (*NoteResponse, error) {
	req.Content = utils.SanitizeText(req.Content)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	n := &domainNote.Note{
		ProjectID: projectID,
		Content:   req.Content,
		CreatedBy: authorID,
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	logger.Info("Note created",
		zap.String("project_id", projectID.String()),
		zap.String("note_id", n.ID.String()),
		zap.String("event", "note_created"),
	)

	return s.withAuthor(ctx, n)
}

func (s *Service) UpdateNote(ctx context.Context, projectID, noteID uuid.UUID, req *NoteRequest) (*NoteResponse, error) {
	req.Content = utils.SanitizeText(req.Content)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	n, err := s.noteRepo.GetByID(ctx, projectID, noteID)
	if err != nil {
		return nil, mapNoteError(err)
	}

	n.Content = req.Content
	if err := s.noteRepo.Update(ctx, n); err != nil {
		return nil, mapNoteError(err)
	}

	return s.withAuthor(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, projectID, noteID uuid.UUID) error {
	if err := s.noteRepo.Delete(ctx, projectID, noteID); err != nil {
		return mapNoteError(err)
	}

	logger.Info("Note deleted",
		zap.String("project_id", projectID.String()),
		zap.String("note_id", noteID.String()),
		zap.String("event", "note_deleted"),
	)

	return nil
}

func (s *Service) withAuthor(ctx context.Context, n *domainNote.Note) (*NoteResponse, error) {
	author, err := s.userRepo.GetByID(ctx, n.CreatedBy)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, err
	}
	return ToNoteResponse(n, author), nil
}

func mapNoteError(err error) error {
	if errors.Is(err, domainNote.ErrNoteNotFound) {
		return appErrors.ErrNoteNotFound
	}
	return err
}
