// Package importer implements bulk CSV import of student registrations.
// A run parses the whole file up front, then submits rows through the
// student service with bounded concurrency. Parse problems abort the run
// before anything is written; submission failures only lose their own row.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// DefaultWorkers caps how many rows are submitted concurrently.
const DefaultWorkers = 8

// Phase describes where an import run currently is.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseParsing
	PhaseSubmitting
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParsing:
		return "parsing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// studentCreator is the submission target, satisfied by the student service.
type studentCreator interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
}

// Importer runs CSV import jobs
type Importer struct {
	students studentCreator
	workers  int
	phase    atomic.Int32
}

// New creates an Importer submitting through the given service. workers <= 0
// selects DefaultWorkers.
func New(students studentCreator, workers int) *Importer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Importer{students: students, workers: workers}
}

// Phase reports the current phase of the importer.
func (im *Importer) Phase() Phase {
	return Phase(im.phase.Load())
}

func (im *Importer) setPhase(p Phase) {
	im.phase.Store(int32(p))
}

// Run imports the CSV document in r. It returns a per-row report on success
// and ErrCSVParseFailed (with row details) when the file itself is malformed.
func (im *Importer) Run(ctx context.Context, r io.Reader) (*dto.ImportReport, error) {
	im.setPhase(PhaseParsing)

	requests, err := im.parse(r)
	if err != nil {
		im.setPhase(PhaseFailed)
		return nil, err
	}
	if len(requests) == 0 {
		im.setPhase(PhaseFailed)
		return nil, apperrors.ErrEmptyImport
	}

	im.setPhase(PhaseSubmitting)

	rowErrs := make([]error, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for i := range requests {
		i := i
		g.Go(func() error {
			if _, err := im.students.Create(gctx, requests[i]); err != nil {
				rowErrs[i] = err
			}
			// Row failures are recorded, not returned; one bad row must not
			// cancel the rest of the batch.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		im.setPhase(PhaseFailed)
		return nil, err
	}

	report := &dto.ImportReport{Total: len(requests)}
	for i, rowErr := range rowErrs {
		if rowErr == nil {
			report.Succeeded++
			continue
		}
		report.Failed++
		// Rows are numbered from 1, not counting the header.
		report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", i+1, rowErr.Error()))
	}

	im.setPhase(PhaseCompleted)
	logger.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("CSV import finished")
	return report, nil
}

// parse reads the whole document and builds one create request per data row,
// applying header mapping, row defaults and date normalization.
func (im *Importer) parse(r io.Reader) ([]*dto.CreateStudentRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	var parseErrs []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// The reader recovers at the next line, so every structural
				// defect in the file ends up in the same report.
				parseErrs = append(parseErrs, err.Error())
				continue
			}
			return nil, apperrors.NewCustomError(apperrors.ErrCSVParseFailed, err.Error())
		}
		records = append(records, record)
	}
	if len(parseErrs) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrCSVParseFailed, strings.Join(parseErrs, "; "))
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyImport
	}

	fields := mapHeader(records[0])
	now := time.Now()

	requests := make([]*dto.CreateStudentRequest, 0, len(records)-1)
	for i, record := range records[1:] {
		requests = append(requests, buildRequest(fields, record, now, i))
	}
	return requests, nil
}

// buildRequest assembles a create request from one CSV row. Missing required
// cells get placeholder values so a sparse row still imports.
func buildRequest(fields []string, record []string, now time.Time, seq int) *dto.CreateStudentRequest {
	row := map[string]string{}
	for i, field := range fields {
		if field == "" || i >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[i]); value != "" {
			row[field] = value
		}
	}

	req := &dto.CreateStudentRequest{
		Name:             row[fieldName],
		Email:            row[fieldEmail],
		Phone:            row[fieldPhone],
		Status:           row[fieldStatus],
		RegistrationDate: normalizeDate(row[fieldRegistrationDate], now),
	}
	if req.Name == "" {
		req.Name = "Unknown"
	}
	if req.Email == "" {
		req.Email = placeholderEmail(now, seq)
	}
	if req.Phone == "" {
		req.Phone = "0000000000"
	}
	if req.Status == "" {
		req.Status = string(models.StatusPending)
	}

	if v, ok := row[fieldCourseInterested]; ok {
		req.CourseInterested = &v
	}
	if v, ok := row[fieldLocation]; ok {
		req.Location = &v
	}
	if v, ok := row[fieldCitizenshipStatus]; ok {
		req.CitizenshipStatus = &v
	}
	if v, ok := row[fieldCurrentSituation]; ok {
		req.CurrentSituation = &v
	}

	return req
}
