package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"tripnotes/internal/models/db_models"
)

// INoteRepository is the read-only view of the note subsystem the plan
// engine needs.
type INoteRepository interface {
	GetConfigNote(ctx context.Context, projectID uuid.UUID) (*db_models.Note, error)
	ListRegularNotes(ctx context.Context, projectID uuid.UUID) ([]db_models.Note, error)
}

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) INoteRepository {
	return &NoteRepository{db: db}
}

func (n *NoteRepository) GetConfigNote(ctx context.Context, projectID uuid.UUID) (*db_models.Note, error) {
	var note db_models.Note
	err := n.db.WithContext(ctx).
		Where("project_id = ? AND is_config = ?", projectID, true).
		Order("updated_at DESC").
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get config note")
	}
	return &note, nil
}

func (n *NoteRepository) ListRegularNotes(ctx context.Context, projectID uuid.UUID) ([]db_models.Note, error) {
	var notes []db_models.Note
	err := n.db.WithContext(ctx).
		Where("project_id = ? AND is_config = ?", projectID, false).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list notes")
	}
	return notes, nil
}
