package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/helpers"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// studentStore is the subset of the student repository the service needs.
type studentStore interface {
	List(ctx context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// noteWriter records system generated audit notes.
type noteWriter interface {
	Create(ctx context.Context, note *models.StudentNote) error
}

// StudentService defines operations on student registration records
type StudentService interface {
	List(ctx context.Context, filter *dto.StudentFilter) (*dto.StudentListResponse, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, actorID int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	students studentStore
	notes    noteWriter
}

// NewStudentService creates a new StudentService instance
func NewStudentService(students studentStore, notes noteWriter) StudentService {
	return &studentService{
		students: students,
		notes:    notes,
	}
}

// List returns the filtered, sorted page of students plus the total match count.
func (s *studentService) List(ctx context.Context, filter *dto.StudentFilter) (*dto.StudentListResponse, error) {
	if filter == nil {
		filter = &dto.StudentFilter{}
	}
	filter.Limit = helpers.NormalizeLimit(filter.Limit)
	filter.Offset = helpers.NormalizeOffset(filter.Offset)

	if filter.SortBy != "" && !dto.ValidSortField(filter.SortBy) {
		return nil, apperrors.ErrInvalidSortColumn
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentListResponse{
		Students: make([]dto.StudentResponse, 0, len(students)),
		Total:    total,
	}
	for i := range students {
		resp.Students = append(resp.Students, dto.FromStudent(&students[i]))
	}

	return resp, nil
}

// GetByID retrieves a single student record
func (s *studentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// Create validates and inserts a new student record. Status defaults to
// pending and the registration date to today when omitted.
func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = string(models.StatusPending)
	}
	if !models.ValidStatus(status) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidStudentStatus,
			fmt.Sprintf("invalid status: %s", req.Status))
	}

	registrationDate := time.Now().Truncate(24 * time.Hour)
	if strings.TrimSpace(req.RegistrationDate) != "" {
		parsed, ok := helpers.ParseDate(req.RegistrationDate)
		if !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidRegistrationDate,
				fmt.Sprintf("invalid registration date: %s", req.RegistrationDate))
		}
		registrationDate = parsed
	}

	student := &models.Student{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		CourseInterested:  req.CourseInterested,
		Location:          req.Location,
		CitizenshipStatus: req.CitizenshipStatus,
		CurrentSituation:  req.CurrentSituation,
		Status:            status,
		RegistrationDate:  registrationDate,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Str("email", student.Email).Msg("Student created")
	return student, nil
}

// Update applies a partial change set. A status transition also records an
// authorless system generated note on the student.
func (s *studentService) Update(ctx context.Context, id int64, actorID int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	existing, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		changes["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		changes["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.CourseInterested != nil {
		changes["course_interested"] = helpers.GetContentNullString(*req.CourseInterested)
	}
	if req.Location != nil {
		changes["location"] = helpers.GetContentNullString(*req.Location)
	}
	if req.CitizenshipStatus != nil {
		changes["citizenship_status"] = helpers.GetContentNullString(*req.CitizenshipStatus)
	}
	if req.CurrentSituation != nil {
		changes["current_situation"] = helpers.GetContentNullString(*req.CurrentSituation)
	}

	var statusChangedFrom string
	if req.Status != nil && *req.Status != existing.Status {
		if !models.ValidStatus(*req.Status) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidStudentStatus,
				fmt.Sprintf("invalid status: %s", *req.Status))
		}
		changes["status"] = *req.Status
		statusChangedFrom = existing.Status
	}

	if req.RegistrationDate != nil {
		parsed, ok := helpers.ParseDate(*req.RegistrationDate)
		if !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidRegistrationDate,
				fmt.Sprintf("invalid registration date: %s", *req.RegistrationDate))
		}
		changes["registration_date"] = parsed
	}

	updated, err := s.students.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	if statusChangedFrom != "" {
		// System notes carry no author; the acting user only appears in the log.
		note := &models.StudentNote{
			StudentID:         id,
			Content:           fmt.Sprintf("Status changed from %s to %s", statusChangedFrom, updated.Status),
			IsSystemGenerated: true,
		}
		if err := s.notes.Create(ctx, note); err != nil {
			// The student update already committed; losing the audit note is
			// not worth failing the request over.
			logger.Error().Err(err).Int64("studentID", id).Int64("actorID", actorID).
				Msg("Failed to record status change note")
		} else {
			logger.Info().Int64("studentID", id).Int64("actorID", actorID).
				Str("from", statusChangedFrom).Str("to", updated.Status).
				Msg("Student status changed")
		}
	}

	return updated, nil
}

// Delete removes a student record along with its notes.
func (s *studentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
