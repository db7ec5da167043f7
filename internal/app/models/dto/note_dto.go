package dto

import (
	"time"

	"github.com/deniz/regdesk/internal/app/models"
)

// NoteResponse represents a student note as returned by the API.
type NoteResponse struct {
	ID                int64     `json:"id"`
	StudentID         int64     `json:"studentId"`
	Content           string    `json:"content"`
	IsSystemGenerated bool      `json:"isSystemGenerated"`
	CreatedBy         *int64    `json:"createdBy,omitempty"`
	CreatedByName     string    `json:"createdByName"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Edited            bool      `json:"edited"`
}

// FromNote converts a model to its API representation.
func FromNote(n *models.StudentNote) NoteResponse {
	return NoteResponse{
		ID:                n.ID,
		StudentID:         n.StudentID,
		Content:           n.Content,
		IsSystemGenerated: n.IsSystemGenerated,
		CreatedBy:         n.CreatedBy,
		CreatedByName:     n.CreatedByName,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
		Edited:            n.Edited(),
	}
}

// NoteContentRequest is the body of note create and update calls.
type NoteContentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}
