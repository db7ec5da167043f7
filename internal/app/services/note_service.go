package services

import (
	"context"
	"strings"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// noteStore is the subset of the note repository the service needs.
type noteStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.StudentNote, error)
	GetByID(ctx context.Context, id int64) (*models.StudentNote, error)
	Create(ctx context.Context, note *models.StudentNote) error
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

// studentGetter verifies that a note target exists.
type studentGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// NoteService defines operations on student notes
type NoteService interface {
	ListByStudent(ctx context.Context, studentID int64) ([]dto.NoteResponse, error)
	Create(ctx context.Context, studentID, actorID int64, content string) (*models.StudentNote, error)
	Update(ctx context.Context, noteID, actorID int64, content string) (*models.StudentNote, error)
	Delete(ctx context.Context, noteID, actorID int64) error
}

type noteService struct {
	notes    noteStore
	students studentGetter
}

// NewNoteService creates a new NoteService instance
func NewNoteService(notes noteStore, students studentGetter) NoteService {
	return &noteService{
		notes:    notes,
		students: students,
	}
}

// ListByStudent returns all notes on a student, newest first.
func (s *noteService) ListByStudent(ctx context.Context, studentID int64) ([]dto.NoteResponse, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, dto.FromNote(&notes[i]))
	}
	return resp, nil
}

// Create adds a user authored note to a student.
func (s *noteService) Create(ctx context.Context, studentID, actorID int64, content string) (*models.StudentNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("note content cannot be empty", nil)
	}
	if len(content) > models.MaxNoteLength {
		return nil, apperrors.ErrNoteTooLong
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	note := &models.StudentNote{
		StudentID: studentID,
		Content:   content,
		CreatedBy: &actorID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	logger.Info().Int64("noteID", note.ID).Int64("studentID", studentID).Msg("Note created")
	return note, nil
}

// Update rewrites a note's content. Only the author may edit, and system
// generated notes are immutable.
func (s *noteService) Update(ctx context.Context, noteID, actorID int64, content string) (*models.StudentNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("note content cannot be empty", nil)
	}
	if len(content) > models.MaxNoteLength {
		return nil, apperrors.ErrNoteTooLong
	}

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.IsSystemGenerated {
		return nil, apperrors.ErrNoteNotEditable
	}
	if note.CreatedBy == nil || *note.CreatedBy != actorID {
		return nil, apperrors.ErrNotNoteAuthor
	}

	if err := s.notes.UpdateContent(ctx, noteID, content); err != nil {
		return nil, err
	}

	return s.notes.GetByID(ctx, noteID)
}

// Delete removes a note. The same authorship rules as Update apply.
func (s *noteService) Delete(ctx context.Context, noteID, actorID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.IsSystemGenerated {
		return apperrors.ErrNoteNotEditable
	}
	if note.CreatedBy == nil || *note.CreatedBy != actorID {
		return apperrors.ErrNotNoteAuthor
	}

	return s.notes.Delete(ctx, noteID)
}
