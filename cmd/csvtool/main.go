// csvtool imports and exports student registration CSV files from the
// command line, through the same services as the HTTP API.
//
// Usage:
//
//	csvtool -import registrations.csv
//	csvtool -export students.csv [-status active,pending] [-location "Toronto, ON"] [-course Nursing]
//	csvtool -check registrations.csv
//
// -check parses and validates a file offline without touching the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/regdesk/internal/app/importer"
	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/app/repositories"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/bootstrap"
	"github.com/deniz/regdesk/internal/pkg/logger"
	"github.com/deniz/regdesk/internal/pkg/session"
)

func main() {
	importPath := flag.String("import", "", "CSV file to import into the database")
	exportPath := flag.String("export", "", "file to export matching students to (\"-\" for stdout)")
	checkPath := flag.String("check", "", "parse and validate a CSV file without writing anything")
	statusFlag := flag.String("status", "", "export filter: comma-joined status values")
	locationFlag := flag.String("location", "", "export filter: exact location")
	courseFlag := flag.String("course", "", "export filter: comma-joined courses of interest")
	workers := flag.Int("workers", importer.DefaultWorkers, "import row submission concurrency")
	flag.Parse()

	switch {
	case *checkPath != "":
		runCheck(*checkPath, *workers)
	case *importPath != "":
		runImport(*importPath, *workers)
	case *exportPath != "":
		runExport(*exportPath, &dto.StudentFilter{
			Status:           splitFlag(*statusFlag),
			Location:         *locationFlag,
			CourseInterested: splitFlag(*courseFlag),
		})
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runImport(path string, workers int) {
	file, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("Cannot open CSV file")
	}
	defer file.Close()

	svcs, pool := connect()
	defer pool.Close()

	report, err := importer.New(svcs.Student, workers).Run(context.Background(), file)
	if err != nil {
		logger.Fatal().Err(err).Msg("Import failed")
	}

	printReport(report)
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func runExport(path string, filter *dto.StudentFilter) {
	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("Cannot create output file")
		}
		defer f.Close()
		out = f
	}

	svcs, pool := connect()
	defer pool.Close()

	rows, err := svcs.Export.Export(context.Background(), filter, out)
	if err != nil {
		logger.Fatal().Err(err).Msg("Export failed")
	}
	fmt.Fprintf(os.Stderr, "exported %d students\n", rows)
}

// runCheck pushes the file through the import pipeline against an in-memory
// sink, so header mapping, defaults and validation run without a database.
func runCheck(path string, workers int) {
	file, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("Cannot open CSV file")
	}
	defer file.Close()

	report, err := importer.New(&checkSink{}, workers).Run(context.Background(), file)
	if err != nil {
		logger.Fatal().Err(err).Msg("CSV file is not importable")
	}

	printReport(report)
	if report.Failed > 0 {
		os.Exit(1)
	}
}

// connect loads the configuration and wires the service layer the same way
// the API server does. The session store is irrelevant for a CLI run.
func connect() (*services.Services, *pgxpool.Pool) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up database")
	}

	repos := repositories.NewRepositories(pool)
	return services.NewServices(repos, session.NewMemoryStore(), cfg.SessionTTL()), pool
}

// checkSink validates create requests without storing anything.
type checkSink struct {
	mu sync.Mutex
	n  int64
}

func (c *checkSink) Create(_ context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return &models.Student{ID: c.n}, nil
}

func printReport(report *dto.ImportReport) {
	fmt.Printf("%d rows: %d ok, %d failed\n", report.Total, report.Succeeded, report.Failed)
	for _, msg := range report.Errors {
		fmt.Fprintln(os.Stderr, msg)
	}
}

func splitFlag(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
