package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
)

type fakeCoverage struct {
	*service.CoverageService
	calls       int
	lastQuery   models.CoverageQuery
	courseYears []models.CourseYearCoverage
}

func (f *fakeCoverage) CourseYearCoverage(_ context.Context, q models.CoverageQuery) ([]models.CourseYearCoverage, error) {
	f.calls++
	f.lastQuery = q
	return f.courseYears, nil
}

func (f *fakeCoverage) ProgramCoverage(_ context.Context, q models.CoverageQuery) ([]models.ProgramCoverage, error) {
	f.calls++
	f.lastQuery = q
	return []models.ProgramCoverage{}, nil
}

func (f *fakeCoverage) ProgramCourseMatrix(_ context.Context, q models.CoverageQuery) (*models.ProgramCourseMatrix, error) {
	f.calls++
	return &models.ProgramCourseMatrix{Years: models.CourseYears}, nil
}

func (f *fakeCoverage) ProgramDetailsByYear(_ context.Context, q models.CoverageQuery) ([]models.ProgramYearDetail, error) {
	f.calls++
	f.lastQuery = q
	return []models.ProgramYearDetail{{ProgramID: "p1", Employed: 2}}, nil
}

func (f *fakeCoverage) EnrollmentOverview(_ context.Context, q models.CoverageQuery) (*models.EnrollmentOverview, error) {
	f.calls++
	return &models.EnrollmentOverview{ByProgram: []models.OverviewBucket{}}, nil
}

func (f *fakeCoverage) AcademicYears(_ context.Context, campaign string) ([]string, error) {
	f.calls++
	return []string{"2025-2026", "2024-2025"}, nil
}

type fakeExporter struct {
	format service.ExportFormat
}

func (f *fakeExporter) EnrollmentOverview(_ context.Context, _ models.CoverageQuery, format service.ExportFormat) (*service.ExportResult, error) {
	f.format = format
	return &service.ExportResult{Filename: "overview.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

type fakeBreakdowns struct {
	dim models.BreakdownDimension
}

func (f *fakeBreakdowns) Breakdown(_ context.Context, dim models.BreakdownDimension, _ models.TimeRange) ([]models.BreakdownRow, error) {
	f.dim = dim
	id := "d1"
	return []models.BreakdownRow{{Label: "IT", Value: 3, DirectionID: &id}}, nil
}

// newCoverageFake embeds a real service so ParseQuery keeps its production behaviour.
func newCoverageFake() *fakeCoverage {
	return &fakeCoverage{CoverageService: service.NewCoverageService(nil, nil, nil, nil, nil, "default")}
}

const window = "from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z"

func TestAnalyticsHandlerRejectsMissingWindow(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/analytics/bot2/course-year-coverage?from=2026-01-01", nil)
	h.CourseYearCoverage(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TIME_RANGE_REQUIRED", decodeEnvelope(t, rec).Error.Code)
	assert.Zero(t, coverage.calls)
}

func TestAnalyticsHandlerRejectsInvertedWindow(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?from=2026-02-01&to=2026-01-01", nil)
	h.ProgramCoverage(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TIME_RANGE", decodeEnvelope(t, rec).Error.Code)
	assert.Zero(t, coverage.calls)
}

func TestAnalyticsHandlerCourseYearCoverage(t *testing.T) {
	coverage := newCoverageFake()
	coverage.courseYears = []models.CourseYearCoverage{{CourseYear: 1, Total: 4, Responded: 1, CoveragePercent: 25}}
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window+"&campaign=spring&academic_year=2025-2026", nil)
	h.CourseYearCoverage(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.CourseYearCoverage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows), "reports are written without the data envelope")
	assert.Equal(t, 25.0, rows[0].CoveragePercent)
	assert.Equal(t, "spring", coverage.lastQuery.Campaign)
	assert.Equal(t, "2025-2026", coverage.lastQuery.AcademicYear)
	assert.Equal(t, "spring", rec.Header().Get("X-Campaign"))
	assert.Equal(t, "2025-2026", rec.Header().Get("X-Academic-Year"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestAnalyticsHandlerCourseYearCoverageIgnoresCourseYear(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window+"&course_year=2", nil)
	h.CourseYearCoverage(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, coverage.lastQuery.CourseYear)
}

func TestAnalyticsHandlerProgramCoverageDefaultsCampaign(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window+"&course_year=2", nil)
	h.ProgramCoverage(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", coverage.lastQuery.Campaign)
	require.NotNil(t, coverage.lastQuery.CourseYear)
	assert.Equal(t, 2, *coverage.lastQuery.CourseYear)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Equal(t, "default", rec.Header().Get("X-Campaign"))
}

func TestAnalyticsHandlerDetailsRequireCourseYear(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window, nil)
	h.ProgramDetailsByYear(c)
	assert.Equal(t, "COURSE_YEAR_REQUIRED", decodeEnvelope(t, rec).Error.Code)

	c, rec = newTestContext(http.MethodGet, "/x?"+window+"&course_year=abc", nil)
	h.ProgramDetailsByYear(c)
	assert.Equal(t, "INVALID_COURSE_YEAR", decodeEnvelope(t, rec).Error.Code)

	c, rec = newTestContext(http.MethodGet, "/x?"+window+"&course_year=5", nil)
	h.ProgramDetailsByYear(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, coverage.calls)
}

func TestAnalyticsHandlerMatrixOverviewAndYears(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window, nil)
	h.ProgramCourseMatrix(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/x?"+window, nil)
	h.EnrollmentOverview(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"by_program":[]`)

	c, rec = newTestContext(http.MethodGet, "/x", nil)
	h.AcademicYears(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["2025-2026","2024-2025"]`, rec.Body.String())
}

func TestAnalyticsHandlerUnusedCourseYearIsNotValidated(t *testing.T) {
	coverage := newCoverageFake()
	h := NewAnalyticsHandler(coverage, &fakeExporter{}, &fakeBreakdowns{})

	for name, report := range map[string]gin.HandlerFunc{
		"course-year-coverage": h.CourseYearCoverage,
		"matrix":               h.ProgramCourseMatrix,
		"overview":             h.EnrollmentOverview,
		"export":               h.ExportEnrollmentOverview,
	} {
		c, rec := newTestContext(http.MethodGet, "/x?"+window+"&course_year=abc", nil)
		report(c)
		assert.Equal(t, http.StatusOK, rec.Code, name)
	}

	c, rec := newTestContext(http.MethodGet, "/x?"+window+"&course_year=abc", nil)
	h.ProgramCoverage(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_COURSE_YEAR", decodeEnvelope(t, rec).Error.Code)
}

func TestAnalyticsHandlerExport(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewAnalyticsHandler(newCoverageFake(), exporter, &fakeBreakdowns{})

	c, rec := newTestContext(http.MethodGet, "/x?"+window+"&format=pdf", nil)
	h.ExportEnrollmentOverview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatPDF, exporter.format)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "overview.pdf")

	c, rec = newTestContext(http.MethodGet, "/x?"+window+"&format=docx", nil)
	h.ExportEnrollmentOverview(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsHandlerBreakdowns(t *testing.T) {
	breakdowns := &fakeBreakdowns{}
	h := NewAnalyticsHandler(newCoverageFake(), &fakeExporter{}, breakdowns)

	c, rec := newTestContext(http.MethodGet, "/x?"+window, nil)
	h.AdmissionsByDirection(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.BreakdownDirection, breakdowns.dim)
	assert.JSONEq(t, `[{"label":"IT","value":3,"direction_id":"d1"}]`, rec.Body.String())

	c, _ = newTestContext(http.MethodGet, "/x?"+window, nil)
	h.AdmissionsByTrack(c)
	assert.Equal(t, models.BreakdownTrack, breakdowns.dim)

	c, _ = newTestContext(http.MethodGet, "/x?"+window, nil)
	h.AcademyBySubject(c)
	assert.Equal(t, models.BreakdownSubject, breakdowns.dim)

	c, rec = newTestContext(http.MethodGet, "/x", nil)
	h.AcademyBySubject(c)
	assert.Equal(t, "TIME_RANGE_REQUIRED", decodeEnvelope(t, rec).Error.Code)
}
