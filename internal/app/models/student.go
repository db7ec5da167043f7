package models

import "time"

// StudentStatus is the enrollment status of a registration record.
type StudentStatus string

const (
	StatusActive    StudentStatus = "active"
	StatusInactive  StudentStatus = "inactive"
	StatusEnrolled  StudentStatus = "enrolled"
	StatusPending   StudentStatus = "pending"
	StatusGraduated StudentStatus = "graduated"
)

// ValidStatus reports whether s is one of the recognized statuses.
func ValidStatus(s string) bool {
	switch StudentStatus(s) {
	case StatusActive, StatusInactive, StatusEnrolled, StatusPending, StatusGraduated:
		return true
	}
	return false
}

// Student defines the registration record model based on the 'students' table.
// RegistrationDate is a calendar date with no time component.
type Student struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone"`
	CourseInterested  *string   `db:"course_interested" json:"courseInterested,omitempty"`
	Location          *string   `db:"location" json:"location,omitempty"`
	CitizenshipStatus *string   `db:"citizenship_status" json:"citizenshipStatus,omitempty"`
	CurrentSituation  *string   `db:"current_situation" json:"currentSituation,omitempty"`
	Status            string    `db:"status" json:"status"`
	RegistrationDate  time.Time `db:"registration_date" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}
