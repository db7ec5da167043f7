package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/helpers"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// ExportColumns is the fixed CSV export header. Import accepts these names
// back unchanged, so an exported file can be re-imported as is.
var ExportColumns = []string{
	"Name", "Email", "Phone", "Course Interested", "Location",
	"Status", "Citizenship Status", "Current Situation", "Registration Date",
}

// ExportService streams student records as CSV
type ExportService interface {
	Export(ctx context.Context, filter *dto.StudentFilter, w io.Writer) (int, error)
}

type exportService struct {
	students studentStore
}

// NewExportService creates a new ExportService instance
func NewExportService(students studentStore) ExportService {
	return &exportService{students: students}
}

// Export writes the full matching set for filter to w as CSV and returns the
// row count. The page window is ignored; an export always covers every match.
// Field quoting and escaping follow RFC 4180 via encoding/csv, so commas,
// quotes and newlines embedded in values survive a round trip.
func (s *exportService) Export(ctx context.Context, filter *dto.StudentFilter, w io.Writer) (int, error) {
	if filter == nil {
		filter = &dto.StudentFilter{}
	}
	filter.Unbounded = true

	students, _, err := s.students.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range students {
		st := &students[i]
		record := []string{
			st.Name,
			st.Email,
			st.Phone,
			derefOrEmpty(st.CourseInterested),
			derefOrEmpty(st.Location),
			st.Status,
			derefOrEmpty(st.CitizenshipStatus),
			derefOrEmpty(st.CurrentSituation),
			helpers.FormatDate(st.RegistrationDate),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}

	logger.Info().Int("rows", len(students)).Msg("Students exported")
	return len(students), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
