package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/export"
)

// ExportFormat selects the rendered attachment type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var overviewColumns = []export.Column{
	{Key: "program_id", Title: "Program ID"},
	{Key: "program_name", Title: "Program"},
	{Key: "course_year", Title: "Course year", Numeric: true},
	{Key: "total", Title: "Students", Numeric: true},
	{Key: "responded", Title: "Responded", Numeric: true},
	{Key: "coverage_percent", Title: "Coverage %", Numeric: true},
}

type overviewSource interface {
	EnrollmentOverview(ctx context.Context, q models.CoverageQuery) (*models.EnrollmentOverview, error)
}

type csvRenderer interface {
	Render(sheet export.Sheet) ([]byte, error)
}

type pdfRenderer interface {
	Render(sheet export.Sheet, title string) ([]byte, error)
}

// ExportResult is a rendered attachment ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the enrollment overview as a downloadable file.
type ExportService struct {
	coverage overviewSource
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(coverage overviewSource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVWriter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{coverage: coverage, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ParseExportFormat defaults to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf.")
}

// EnrollmentOverview renders the by_program rows of the overview report followed by
// the overall totals.
func (s *ExportService) EnrollmentOverview(ctx context.Context, q models.CoverageQuery, format ExportFormat) (*ExportResult, error) {
	overview, err := s.coverage.EnrollmentOverview(ctx, q)
	if err != nil {
		return nil, err
	}

	sheet := export.Sheet{Columns: overviewColumns, Rows: make([]map[string]string, 0, len(overview.ByProgram))}
	for _, bucket := range overview.ByProgram {
		sheet.Rows = append(sheet.Rows, map[string]string{
			"program_id":       bucket.ProgramID,
			"program_name":     bucket.ProgramName,
			"course_year":      strconv.Itoa(bucket.CourseYear),
			"total":            strconv.Itoa(bucket.Total),
			"responded":        strconv.Itoa(bucket.Responded),
			"coverage_percent": formatPercent(bucket.CoveragePercent),
		})
	}
	sheet.Totals = map[string]string{
		"program_name":     "Total",
		"total":            strconv.Itoa(overview.TotalStudents),
		"responded":        strconv.Itoa(overview.TotalResponded),
		"coverage_percent": formatPercent(overview.CoveragePercent),
	}

	result := &ExportResult{Filename: s.filename(q, format)}
	switch format {
	case ExportFormatPDF:
		title := fmt.Sprintf("Enrollment coverage %s (%s - %s)", q.Campaign, q.Range.From.Format("2006-01-02"), q.Range.To.Format("2006-01-02"))
		result.Data, err = s.pdf.Render(sheet, title)
		result.ContentType = "application/pdf"
	default:
		result.Data, err = s.csv.Render(sheet)
		result.ContentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("coverage export rendered",
		zap.String("format", string(format)),
		zap.String("campaign", q.Campaign),
		zap.Int("rows", len(sheet.Rows)),
		zap.Int("bytes", len(result.Data)),
	)
	return result, nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *ExportService) filename(q models.CoverageQuery, format ExportFormat) string {
	campaign := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' || r == '"' {
			return '_'
		}
		return r
	}, q.Campaign)
	return fmt.Sprintf("enrollments-overview_%s_%s.%s", campaign, s.now().UTC().Format("20060102T150405"), format)
}
