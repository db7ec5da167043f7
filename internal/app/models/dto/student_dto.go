package dto

import (
	"time"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/pkg/helpers"
)

// StudentResponse represents a student record as returned by the API.
// RegistrationDate is a plain calendar date.
type StudentResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	CourseInterested  *string   `json:"courseInterested"`
	Location          *string   `json:"location"`
	CitizenshipStatus *string   `json:"citizenshipStatus"`
	CurrentSituation  *string   `json:"currentSituation"`
	Status            string    `json:"status"`
	RegistrationDate  string    `json:"registrationDate" example:"2024-01-15"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromStudent converts a model to its API representation.
func FromStudent(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		CourseInterested:  s.CourseInterested,
		Location:          s.Location,
		CitizenshipStatus: s.CitizenshipStatus,
		CurrentSituation:  s.CurrentSituation,
		Status:            s.Status,
		RegistrationDate:  helpers.FormatDate(s.RegistrationDate),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// StudentListResponse is the page envelope for GET /api/students.
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	Total    int64             `json:"total"`
}

// CreateStudentRequest represents student creation data. Status defaults to
// pending and RegistrationDate to today when absent.
type CreateStudentRequest struct {
	Name              string  `json:"name" binding:"required"`
	Email             string  `json:"email" binding:"required"`
	Phone             string  `json:"phone" binding:"required"`
	CourseInterested  *string `json:"courseInterested"`
	Location          *string `json:"location"`
	CitizenshipStatus *string `json:"citizenshipStatus"`
	CurrentSituation  *string `json:"currentSituation"`
	Status            string  `json:"status"`
	RegistrationDate  string  `json:"registrationDate"`
}

// UpdateStudentRequest represents a partial student update. Nil fields are
// left untouched.
type UpdateStudentRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	CourseInterested  *string `json:"courseInterested"`
	Location          *string `json:"location"`
	CitizenshipStatus *string `json:"citizenshipStatus"`
	CurrentSituation  *string `json:"currentSituation"`
	Status            *string `json:"status"`
	RegistrationDate  *string `json:"registrationDate"`
}

// SortFields lists the student columns a listing may be ordered by.
var SortFields = []string{
	"name", "email", "phone", "courseInterested", "location",
	"status", "registrationDate", "createdAt", "updatedAt",
}

// ValidSortField reports whether field is an allowed sort column.
func ValidSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// StudentFilter carries the filter, sort and page window for student queries.
// All predicates are optional and combined with AND; multi-value fields
// match when the stored value equals any of the supplied values.
type StudentFilter struct {
	Name             string
	Email            string
	Phone            string
	CourseInterested []string
	Status           []string
	Location         string
	DateFrom         *time.Time
	DateTo           *time.Time
	SortBy           string
	SortOrder        string
	Offset           int
	Limit            int
	// Unbounded disables the page window; used by CSV export.
	Unbounded bool
}
