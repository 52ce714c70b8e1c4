package postgres

import (
	"context"
	"errors"
	"fmt"
	domainNote "project-pilot/internal/domain/note"
	"project-pilot/internal/infrastructure/database/postgres/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteRepository implements domainNote.Repository
type NoteRepository struct {
	db *DB
}

func NewNoteRepository(db *DB) domainNote.Repository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *domainNote.Note) error {
	now := time.Now()
	n.ID = uuid.New()
	n.CreatedAt = now
	n.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toNoteModel(n)).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, projectID, noteID uuid.UUID) (*domainNote.Note, error) {
	var dbModel models.NoteModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND project_id = ?", noteID, projectID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainNote.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return toNoteEntity(&dbModel), nil
}

// ListByProject returns the project's notes, newest first.
func (r *NoteRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domainNote.Note, error) {
	var dbModels []models.NoteModel
	err := r.db.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*domainNote.Note, len(dbModels))
	for i := range dbModels {
		notes[i] = toNoteEntity(&dbModels[i])
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *domainNote.Note) error {
	n.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.NoteModel{}).
		Where("id = ? AND project_id = ?", n.ID, n.ProjectID).
		Updates(map[string]interface{}{
			"content":    n.Content,
			"updated_at": n.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainNote.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, projectID, noteID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ? AND project_id = ?", noteID, projectID).
		Delete(&models.NoteModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainNote.ErrNoteNotFound
	}
	return nil
}

func toNoteModel(n *domainNote.Note) *models.NoteModel {
	return &models.NoteModel{
		ID:        n.ID,
		ProjectID: n.ProjectID,
		Content:   n.Content,
		CreatedBy: n.CreatedBy,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNoteEntity(m *models.NoteModel) *domainNote.Note {
	return &domainNote.Note{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Content:   m.Content,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
