package models

import "time"

// MaxNoteLength bounds the free-text content of a note.
const MaxNoteLength = 5000

// StudentNote represents a free-text note or system log entry attached to a
// student record. System-generated notes (status-change audit trail) carry no
// author ID and cannot be edited.
type StudentNote struct {
	ID                int64     `db:"id" json:"id"`
	StudentID         int64     `db:"student_id" json:"studentId"`
	Content           string    `db:"content" json:"content"`
	IsSystemGenerated bool      `db:"is_system_generated" json:"isSystemGenerated"`
	CreatedBy         *int64    `db:"created_by" json:"createdBy,omitempty"`
	CreatedByName     string    `db:"created_by_name" json:"createdByName"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Edited reports whether the note has been modified since creation.
func (n *StudentNote) Edited() bool {
	return !n.UpdatedAt.Equal(n.CreatedAt)
}
