package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/middleware"
	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

type coverageReporter interface {
	ParseQuery(params service.CoverageParams, use service.CourseYearUse) (models.CoverageQuery, error)
	CourseYearCoverage(ctx context.Context, q models.CoverageQuery) ([]models.CourseYearCoverage, error)
	ProgramCoverage(ctx context.Context, q models.CoverageQuery) ([]models.ProgramCoverage, error)
	ProgramCourseMatrix(ctx context.Context, q models.CoverageQuery) (*models.ProgramCourseMatrix, error)
	ProgramDetailsByYear(ctx context.Context, q models.CoverageQuery) ([]models.ProgramYearDetail, error)
	EnrollmentOverview(ctx context.Context, q models.CoverageQuery) (*models.EnrollmentOverview, error)
	AcademicYears(ctx context.Context, campaign string) ([]string, error)
}

type overviewExporter interface {
	EnrollmentOverview(ctx context.Context, q models.CoverageQuery, format service.ExportFormat) (*service.ExportResult, error)
}

type breakdownReporter interface {
	Breakdown(ctx context.Context, dim models.BreakdownDimension, rng models.TimeRange) ([]models.BreakdownRow, error)
}

// AnalyticsHandler exposes the survey coverage reports and intake breakdowns.
type AnalyticsHandler struct {
	coverage   coverageReporter
	exporter   overviewExporter
	breakdowns breakdownReporter
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(coverage coverageReporter, exporter overviewExporter, breakdowns breakdownReporter) *AnalyticsHandler {
	return &AnalyticsHandler{coverage: coverage, exporter: exporter, breakdowns: breakdowns}
}

// query validates the window before any report touches storage. course_year is
// only checked by the reports that read it.
func (h *AnalyticsHandler) query(c *gin.Context, use service.CourseYearUse) (models.CoverageQuery, bool) {
	q, err := h.coverage.ParseQuery(coverageParams(c), use)
	if err != nil {
		response.Error(c, err)
		return q, false
	}
	middleware.SetMeta(c, "campaign", q.Campaign)
	if q.AcademicYear != "" {
		middleware.SetMeta(c, "academic_year", q.AcademicYear)
	}
	return q, true
}

// ok writes reports bare for the dashboard charts; errors keep the error envelope.
func (h *AnalyticsHandler) ok(c *gin.Context, data interface{}) {
	response.Bare(c, http.StatusOK, data, middleware.ExtractMeta(c))
}

// CourseYearCoverage godoc
// @Summary Coverage per course year
// @Description Five rows, one per course year, graduates included
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Param campaign query string false "Survey campaign"
// @Param academic_year query string false "Academic year YYYY-YYYY"
// @Success 200 {array} models.CourseYearCoverage
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/course-year-coverage [get]
func (h *AnalyticsHandler) CourseYearCoverage(c *gin.Context) {
	q, ok := h.query(c, service.CourseYearIgnored)
	if !ok {
		return
	}
	rows, err := h.coverage.CourseYearCoverage(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, rows)
}

// ProgramCoverage godoc
// @Summary Coverage per program
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Param course_year query int false "Course year 1-5"
// @Success 200 {array} models.ProgramCoverage
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/program-coverage [get]
func (h *AnalyticsHandler) ProgramCoverage(c *gin.Context) {
	q, ok := h.query(c, service.CourseYearOptional)
	if !ok {
		return
	}
	rows, err := h.coverage.ProgramCoverage(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, rows)
}

// ProgramCourseMatrix godoc
// @Summary Program by course year coverage matrix
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Success 200 {object} models.ProgramCourseMatrix
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/program-course-matrix [get]
func (h *AnalyticsHandler) ProgramCourseMatrix(c *gin.Context) {
	q, ok := h.query(c, service.CourseYearIgnored)
	if !ok {
		return
	}
	matrix, err := h.coverage.ProgramCourseMatrix(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, matrix)
}

// ProgramDetailsByYear godoc
// @Summary Program coverage with employment split for one course year
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Param course_year query int true "Course year 1-5"
// @Success 200 {array} models.ProgramYearDetail
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/program-details-by-year [get]
func (h *AnalyticsHandler) ProgramDetailsByYear(c *gin.Context) {
	q, ok := h.query(c, service.CourseYearRequired)
	if !ok {
		return
	}
	rows, err := h.coverage.ProgramDetailsByYear(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, rows)
}

// EnrollmentOverview godoc
// @Summary Overall, per year and per bucket coverage
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Success 200 {object} models.EnrollmentOverview
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/enrollments-overview [get]
func (h *AnalyticsHandler) EnrollmentOverview(c *gin.Context) {
	q, ok := h.query(c, service.CourseYearIgnored)
	if !ok {
		return
	}
	overview, err := h.coverage.EnrollmentOverview(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, overview)
}

// ExportEnrollmentOverview godoc
// @Summary Download the overview buckets as CSV or PDF
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /analytics/bot2/enrollments-overview/export [get]
func (h *AnalyticsHandler) ExportEnrollmentOverview(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	q, ok := h.query(c, service.CourseYearIgnored)
	if !ok {
		return
	}
	result, err := h.exporter.EnrollmentOverview(c.Request.Context(), q, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}

// AcademicYears godoc
// @Summary Academic years with enrollment totals, newest first
// @Tags Analytics
// @Produce json
// @Param campaign query string false "Survey campaign"
// @Success 200 {array} string
// @Router /analytics/bot2/academic-years [get]
func (h *AnalyticsHandler) AcademicYears(c *gin.Context) {
	years, err := h.coverage.AcademicYears(c.Request.Context(), c.Query("campaign"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, years)
}

// AdmissionsByDirection godoc
// @Summary Admission applications grouped by direction
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Success 200 {array} models.BreakdownRow
// @Failure 400 {object} response.Envelope
// @Router /analytics/admissions-2026/by-direction [get]
func (h *AnalyticsHandler) AdmissionsByDirection(c *gin.Context) {
	h.breakdown(c, models.BreakdownDirection)
}

// AdmissionsByTrack godoc
// @Summary Admission applications grouped by track
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Success 200 {array} models.BreakdownRow
// @Failure 400 {object} response.Envelope
// @Router /analytics/admissions-2026/by-track [get]
func (h *AnalyticsHandler) AdmissionsByTrack(c *gin.Context) {
	h.breakdown(c, models.BreakdownTrack)
}

// AcademyBySubject godoc
// @Summary Academy requests grouped by subject
// @Tags Analytics
// @Produce json
// @Param from query string true "Window start (ISO-8601)"
// @Param to query string true "Window end (ISO-8601)"
// @Success 200 {array} models.BreakdownRow
// @Failure 400 {object} response.Envelope
// @Router /analytics/polito-academy/by-subject [get]
func (h *AnalyticsHandler) AcademyBySubject(c *gin.Context) {
	h.breakdown(c, models.BreakdownSubject)
}

func (h *AnalyticsHandler) breakdown(c *gin.Context, dim models.BreakdownDimension) {
	rng, err := service.ParseTimeRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.breakdowns.Breakdown(c.Request.Context(), dim, rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, rows)
}
