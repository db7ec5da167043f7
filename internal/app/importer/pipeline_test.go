package importer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
)

// recordingCreator collects submitted requests and rejects duplicate emails.
type recordingCreator struct {
	mu      sync.Mutex
	created []*dto.CreateStudentRequest
	emails  map[string]bool
}

func newRecordingCreator() *recordingCreator {
	return &recordingCreator{emails: map[string]bool{}}
}

func (c *recordingCreator) Create(_ context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emails[req.Email] {
		return nil, apperrors.ErrStudentEmailExists
	}
	c.emails[req.Email] = true
	c.created = append(c.created, req)
	return &models.Student{ID: int64(len(c.created))}, nil
}

func runImport(t *testing.T, csvText string) (*dto.ImportReport, *recordingCreator, error) {
	t.Helper()
	creator := newRecordingCreator()
	report, err := New(creator, 4).Run(context.Background(), strings.NewReader(csvText))
	return report, creator, err
}

func TestImport_HeaderSynonymMapping(t *testing.T) {
	csvText := "Name,Email,Phone,Interested_Medical_Professions,Location,Current_Status_Citizenship,Current_Situation,Status,Timestamp\n" +
		"Jane Smith,jane@example.com,5551234,Nursing,Toronto,Citizen,Working,active,01/15/2024\n"

	report, creator, err := runImport(t, csvText)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, creator.created, 1)
	req := creator.created[0]
	assert.Equal(t, "Jane Smith", req.Name)
	require.NotNil(t, req.CourseInterested)
	assert.Equal(t, "Nursing", *req.CourseInterested)
	require.NotNil(t, req.CitizenshipStatus)
	assert.Equal(t, "Citizen", *req.CitizenshipStatus)
	require.NotNil(t, req.CurrentSituation)
	assert.Equal(t, "Working", *req.CurrentSituation)
	assert.Equal(t, "2024-01-15", req.RegistrationDate)
}

func TestImport_CanonicalExportHeadersRoundTrip(t *testing.T) {
	// The exact header an export writes, with a BOM the way spreadsheet
	// tools save it; interior spaces must not defeat the synonym lookup.
	csvText := "\uFEFFName,Email,Phone,Course Interested,Location,Status,Citizenship Status,Current Situation,Registration Date\n" +
		"Jane Smith,jane@example.com,5551234,Nursing,Toronto,active,Citizen,Working,2024-01-15\n"

	report, creator, err := runImport(t, csvText)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	require.Len(t, creator.created, 1)
	req := creator.created[0]
	assert.Equal(t, "Jane Smith", req.Name)
	require.NotNil(t, req.CourseInterested)
	assert.Equal(t, "Nursing", *req.CourseInterested)
	require.NotNil(t, req.CitizenshipStatus)
	assert.Equal(t, "Citizen", *req.CitizenshipStatus)
	require.NotNil(t, req.CurrentSituation)
	assert.Equal(t, "Working", *req.CurrentSituation)
	assert.Equal(t, "active", req.Status)
	assert.Equal(t, "2024-01-15", req.RegistrationDate)
}

func TestImport_RowDefaults(t *testing.T) {
	csvText := "name,email,phone,status\n,,,\n"

	report, creator, err := runImport(t, csvText)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	req := creator.created[0]
	assert.Equal(t, "Unknown", req.Name)
	assert.Regexp(t, `^unknown_\d+_\d+@example\.com$`, req.Email)
	assert.Equal(t, "0000000000", req.Phone)
	assert.Equal(t, "pending", req.Status)
}

func TestImport_PlaceholderEmailsNeverCollide(t *testing.T) {
	var rows strings.Builder
	rows.WriteString("name,phone\n")
	for i := 0; i < 50; i++ {
		rows.WriteString("Unknown,555\n")
	}

	report, _, err := runImport(t, rows.String())
	require.NoError(t, err)
	assert.Equal(t, 50, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
}

func TestImport_DateNormalization(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tests := []struct {
		input string
		want  string
	}{
		{"01/15/2024", "2024-01-15"},
		{"2024-01-15", "2024-01-15"},
		{"1/5/2024 13:45:00", "2024-01-05"},
		{"garbage", today},
		{"", today},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDate(tt.input, time.Now()))
		})
	}
}

func TestImport_RowFailuresAreIndependent(t *testing.T) {
	csvText := "name,email,phone\n" +
		"Jane,jane@example.com,1\n" +
		"Jane Again,jane@example.com,2\n"

	// one worker keeps submission order deterministic, so the duplicate in
	// row 2 is the one rejected
	creator := newRecordingCreator()
	report, err := New(creator, 1).Run(context.Background(), strings.NewReader(csvText))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "row 2")
}

func TestImport_MalformedCSVAbortsRun(t *testing.T) {
	csvText := "name,email\n\"unterminated,jane@example.com\n"

	report, creator, err := runImport(t, csvText)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrCSVParseFailed)
	assert.Empty(t, creator.created)
}

func TestImport_EmptyFile(t *testing.T) {
	_, _, err := runImport(t, "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyImport)

	_, _, err = runImport(t, "name,email,phone\n")
	assert.ErrorIs(t, err, apperrors.ErrEmptyImport)
}

func TestImport_PhaseProgression(t *testing.T) {
	im := New(newRecordingCreator(), 2)
	assert.Equal(t, PhaseIdle, im.Phase())

	_, err := im.Run(context.Background(), strings.NewReader("name,email,phone\nJane,j@example.com,1\n"))
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, im.Phase())

	_, err = im.Run(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, PhaseFailed, im.Phase())
}
