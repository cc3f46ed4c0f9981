package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/export"
)

type stubOverview struct {
	overview *models.EnrollmentOverview
	err      error
}

func (s stubOverview) EnrollmentOverview(context.Context, models.CoverageQuery) (*models.EnrollmentOverview, error) {
	return s.overview, s.err
}

type recordingPDF struct {
	title string
	rows  int
}

func (r *recordingPDF) Render(sheet export.Sheet, title string) ([]byte, error) {
	r.title = title
	r.rows = len(sheet.Rows)
	return []byte("%PDF"), nil
}

func exportQuery() models.CoverageQuery {
	return models.CoverageQuery{
		Campaign: "spring 2026",
		Range:    models.TimeRange{From: windowFrom, To: windowTo},
	}
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, format)

	_, err = ParseExportFormat("xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportServiceRendersOverviewCSV(t *testing.T) {
	source := stubOverview{overview: &models.EnrollmentOverview{
		TotalStudents: 4, TotalResponded: 1, CoveragePercent: 25,
		ByProgram: []models.OverviewBucket{
			{ProgramID: "prog-1", ProgramName: "CS", CourseYear: 1, Total: 4, Responded: 1, CoveragePercent: 25},
		},
	}}
	svc := NewExportService(source, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	result, err := svc.EnrollmentOverview(context.Background(), exportQuery(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "enrollments-overview_spring_2026_20260301T120000.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(result.Data), "\ufeff")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Program ID,Program,Course year,Students,Responded,Coverage %", lines[0])
	assert.Equal(t, "prog-1,CS,1,4,1,25.00", lines[1])
	assert.Equal(t, ",Total,,4,1,25.00", lines[2])
}

func TestExportServiceRendersOverviewPDF(t *testing.T) {
	source := stubOverview{overview: &models.EnrollmentOverview{ByProgram: []models.OverviewBucket{{ProgramID: "p"}, {ProgramID: "q"}}}}
	pdf := &recordingPDF{}
	svc := NewExportService(source, nil, nil, pdf)

	result, err := svc.EnrollmentOverview(context.Background(), exportQuery(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
	assert.Equal(t, 2, pdf.rows)
	assert.Contains(t, pdf.title, "spring 2026")
}

func TestExportServicePropagatesCoverageErrors(t *testing.T) {
	svc := NewExportService(stubOverview{err: appErrors.Clone(appErrors.ErrInvalidTimeRange, "bad")}, nil, nil, nil)
	_, err := svc.EnrollmentOverview(context.Background(), exportQuery(), ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTimeRange))
}
