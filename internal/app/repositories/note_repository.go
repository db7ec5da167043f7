package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

var noteColumns = []string{
	"n.id", "n.student_id", "n.content", "n.is_system_generated",
	"n.created_by", "COALESCE(u.name, '')", "n.created_at", "n.updated_at",
}

// NoteRepository handles database operations for student notes
type NoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByStudent returns all notes for a student, newest first. The author
// name is resolved through a join so deleted authors degrade to an empty name.
func (r *NoteRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentNote, error) {
	sql, args, err := r.sb.Select(noteColumns...).
		From("student_notes n").
		LeftJoin("users u ON u.id = n.created_by").
		Where(squirrel.Eq{"n.student_id": studentID}).
		OrderBy("n.created_at DESC", "n.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list notes query")
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.StudentNote{}
	for rows.Next() {
		var note models.StudentNote
		if err := scanNote(rows, &note); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// GetByID retrieves a single note by ID
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.StudentNote, error) {
	sql, args, err := r.sb.Select(noteColumns...).
		From("student_notes n").
		LeftJoin("users u ON u.id = n.created_by").
		Where(squirrel.Eq{"n.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get note query: %w", err)
	}

	var note models.StudentNote
	row := r.db.QueryRow(ctx, sql, args...)
	if err := scanNote(row, &note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error retrieving note: %w", err)
	}

	return &note, nil
}

// Create inserts a note and fills in the assigned ID and timestamps.
func (r *NoteRepository) Create(ctx context.Context, note *models.StudentNote) error {
	sql, args, err := r.sb.Insert("student_notes").
		Columns("student_id", "content", "is_system_generated", "created_by").
		Values(note.StudentID, note.Content, note.IsSystemGenerated, note.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create note query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", note.StudentID).Msg("Error executing create note query")
		return fmt.Errorf("error creating note: %w", err)
	}

	return nil
}

// UpdateContent replaces a note's content and refreshes updated_at.
func (r *NoteRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	sql, args, err := r.sb.Update("student_notes").
		Set("content", content).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update note query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error executing update note query")
		return fmt.Errorf("error updating note: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

// Delete removes a note by ID
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("student_notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete note query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error executing delete note query")
		return fmt.Errorf("error deleting note: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

func scanNote(row pgx.Row, note *models.StudentNote) error {
	return row.Scan(
		&note.ID,
		&note.StudentID,
		&note.Content,
		&note.IsSystemGenerated,
		&note.CreatedBy,
		&note.CreatedByName,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
}
