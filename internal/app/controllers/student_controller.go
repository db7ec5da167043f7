package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/importer"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/middleware"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/helpers"
)

// StudentController handles student record operations
type StudentController struct {
	studentService services.StudentService
	exportService  services.ExportService
	importer       *importer.Importer
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, exportService services.ExportService, imp *importer.Importer) *StudentController {
	return &StudentController{
		studentService: studentService,
		exportService:  exportService,
		importer:       imp,
	}
}

// ListStudents handles the filtered, sorted, paginated student listing
// @Summary List students
// @Description Returns the page of students matching the filter plus the total match count.
// @Tags students
// @Produce json
// @Param name query string false "Substring match on name"
// @Param email query string false "Substring match on email"
// @Param phone query string false "Substring match on phone"
// @Param courseInterested query string false "Comma-joined course values"
// @Param status query string false "Comma-joined status values"
// @Param location query string false "Exact location match"
// @Param registrationDateFrom query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param registrationDateTo query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "asc or desc"
// @Param limit query int false "Page size" default(300)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.StudentListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	filter := parseStudentFilter(ctx)

	resp, err := c.studentService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetStudent handles retrieving a single student record
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromStudent(student))
}

// CreateStudent handles creating a student record
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Param student body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.FromStudent(student))
}

// UpdateStudent handles a partial update of a student record
// @Summary Update a student
// @Description Applies the supplied fields to the record. A status change also records a system note.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param student body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, actor.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromStudent(student))
}

// DeleteStudent handles deleting a student record and its notes
// @Summary Delete a student
// @Tags students
// @Param id path int true "Student ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ImportStudents handles bulk CSV import
// @Summary Import students from CSV
// @Description Parses the uploaded CSV and creates one student per row. Parse errors abort the whole import; per-row failures are tallied in the report.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportReport
// @Failure 400 {object} dto.ErrorResponse
// @Router /students/import [post]
func (c *StudentController) ImportStudents(ctx *gin.Context) {
	var src io.Reader

	// Accepts either a multipart "file" part or the CSV as the raw body.
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		defer file.Close()
		src = file
	} else if ctx.Request.Body != nil && ctx.Request.ContentLength != 0 &&
		!strings.HasPrefix(ctx.ContentType(), "multipart/") {
		src = ctx.Request.Body
	} else {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "missing CSV upload"))
		return
	}

	report, err := c.importer.Run(ctx.Request.Context(), src)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// ExportStudents handles CSV export of the filtered student set
// @Summary Export students to CSV
// @Description Accepts the same filter parameters as the listing; the page window is ignored.
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Router /students/export [get]
func (c *StudentController) ExportStudents(ctx *gin.Context) {
	filename := fmt.Sprintf("students-export-%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := c.exportService.Export(ctx.Request.Context(), parseStudentFilter(ctx), ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

// parseStudentFilter builds a filter from the listing query parameters.
// Malformed date bounds are dropped, matching the filter contract.
func parseStudentFilter(ctx *gin.Context) *dto.StudentFilter {
	offset, limit := helpers.ParsePageWindow(ctx)
	filter := &dto.StudentFilter{
		Name:      ctx.Query("name"),
		Email:     ctx.Query("email"),
		Phone:     ctx.Query("phone"),
		Location:  ctx.Query("location"),
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
		Offset:    offset,
		Limit:     limit,
	}

	if courses := ctx.Query("courseInterested"); courses != "" {
		filter.CourseInterested = splitMultiValue(courses)
	}
	if statuses := ctx.Query("status"); statuses != "" {
		filter.Status = splitMultiValue(statuses)
	}
	if from, ok := helpers.ParseDate(ctx.Query("registrationDateFrom")); ok {
		filter.DateFrom = &from
	}
	if to, ok := helpers.ParseDate(ctx.Query("registrationDateTo")); ok {
		filter.DateTo = &to
	}

	return filter
}

func splitMultiValue(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDParam extracts the numeric :id path parameter, rejecting the
// request on garbage.
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID parameter").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}
