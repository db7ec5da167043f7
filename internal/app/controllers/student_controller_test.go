package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/regdesk/internal/app/importer"
	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStudentService fakes the service layer for handler tests.
type stubStudentService struct {
	lastFilter *dto.StudentFilter
	lastCreate *dto.CreateStudentRequest
	listResp   *dto.StudentListResponse
	student    *models.Student
	err        error
}

func (s *stubStudentService) List(_ context.Context, filter *dto.StudentFilter) (*dto.StudentListResponse, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	if s.listResp != nil {
		return s.listResp, nil
	}
	return &dto.StudentListResponse{Students: []dto.StudentResponse{}, Total: 0}, nil
}

func (s *stubStudentService) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.student, nil
}

func (s *stubStudentService) Create(_ context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	s.lastCreate = req
	if s.err != nil {
		return nil, s.err
	}
	return s.student, nil
}

func (s *stubStudentService) Update(_ context.Context, id int64, actorID int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.student, nil
}

func (s *stubStudentService) Delete(_ context.Context, id int64) error {
	return s.err
}

type stubExportService struct {
	lastFilter *dto.StudentFilter
}

func (s *stubExportService) Export(_ context.Context, filter *dto.StudentFilter, w io.Writer) (int, error) {
	s.lastFilter = filter
	_, err := w.Write([]byte("name,email\n"))
	return 0, err
}

// testUser injects an authenticated user the way the session middleware would.
func testUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: id, Name: "Tester", Email: "tester@regdesk.local"})
		c.Next()
	}
}

func studentRouter(svc *stubStudentService) *gin.Engine {
	router := gin.New()
	controller := NewStudentController(svc, &stubExportService{}, importer.New(svc, 1))

	api := router.Group("/api", testUser(1))
	api.GET("/students", controller.ListStudents)
	api.POST("/students", controller.CreateStudent)
	api.GET("/students/export", controller.ExportStudents)
	api.POST("/students/import", controller.ImportStudents)
	api.GET("/students/:id", controller.GetStudent)
	api.PUT("/students/:id", controller.UpdateStudent)
	api.DELETE("/students/:id", controller.DeleteStudent)
	return router
}

func TestListStudents_ParsesFilterParams(t *testing.T) {
	svc := &stubStudentService{}
	router := studentRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/students?status=active,pending&limit=10&offset=0&name=smith&registrationDateFrom=2024-01-01&registrationDateTo=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.lastFilter)
	assert.Equal(t, []string{"active", "pending"}, svc.lastFilter.Status)
	assert.Equal(t, 10, svc.lastFilter.Limit)
	assert.Equal(t, 0, svc.lastFilter.Offset)
	assert.Equal(t, "smith", svc.lastFilter.Name)
	require.NotNil(t, svc.lastFilter.DateFrom)
	// the malformed upper bound is dropped, not an error
	assert.Nil(t, svc.lastFilter.DateTo)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "students")
	assert.Contains(t, body, "total")
}

func TestGetStudent_NotFoundEnvelope(t *testing.T) {
	svc := &stubStudentService{err: apperrors.ErrStudentNotFound}
	router := studentRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/students/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Error.Code)
}

func TestGetStudent_RejectsGarbageID(t *testing.T) {
	router := studentRouter(&stubStudentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/students/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateStudent_ReturnsCreatedRecord(t *testing.T) {
	svc := &stubStudentService{student: &models.Student{
		ID: 7, Name: "Jane", Email: "jane@example.com", Phone: "1",
		Status: "pending", RegistrationDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}}
	router := studentRouter(svc)

	body := `{"name":"Jane","email":"jane@example.com","phone":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.StudentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2024-01-15", resp.RegistrationDate)
}

func TestCreateStudent_MissingRequiredFields(t *testing.T) {
	router := studentRouter(&stubStudentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(`{"name":"Jane"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
}

func TestDeleteStudent_NoContent(t *testing.T) {
	router := studentRouter(&stubStudentService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/students/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestExportStudents_SetsDownloadHeadersAndForwardsFilter(t *testing.T) {
	svc := &stubStudentService{}
	exporter := &stubExportService{}
	router := gin.New()
	controller := NewStudentController(svc, exporter, importer.New(svc, 1))
	router.GET("/api/students/export", testUser(1), controller.ExportStudents)

	req := httptest.NewRequest(http.MethodGet, "/api/students/export?status=active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="students-export-\d{4}-\d{2}-\d{2}\.csv"`, rec.Header().Get("Content-Disposition"))

	require.NotNil(t, exporter.lastFilter)
	assert.Equal(t, []string{"active"}, exporter.lastFilter.Status)
}

func TestImportStudents_MultipartRoundTrip(t *testing.T) {
	svc := &stubStudentService{student: &models.Student{ID: 1}}
	router := studentRouter(svc)

	var body strings.Builder
	boundary := "testboundary"
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"file\"; filename=\"students.csv\"\r\n")
	body.WriteString("Content-Type: text/csv\r\n\r\n")
	body.WriteString("name,email,phone\nJane,jane@example.com,1\n")
	body.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/students/import", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report dto.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
}

func TestImportStudents_RawBody(t *testing.T) {
	svc := &stubStudentService{student: &models.Student{ID: 1}}
	router := studentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/students/import",
		strings.NewReader("name,email,phone\nJane,jane@example.com,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report dto.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Succeeded)
}

func TestImportStudents_MissingFile(t *testing.T) {
	router := studentRouter(&stubStudentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/students/import", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
