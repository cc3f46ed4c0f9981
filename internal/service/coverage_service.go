package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type coverageSurveyReader interface {
	Window(ctx context.Context, from, to time.Time, campaign string) ([]models.SurveyWindowRow, error)
}

type coverageRosterCounter interface {
	CountActive(ctx context.Context, campaign string, courseYear *int) ([]models.BucketCount, error)
}

type coverageEnrollmentReader interface {
	Sum(ctx context.Context, campaign, academicYear string, courseYear *int) ([]models.BucketCount, error)
	LatestAcademicYear(ctx context.Context, campaign string) (string, error)
	AcademicYears(ctx context.Context, campaign string) ([]string, error)
}

// CoverageParams are the raw query parameters shared by the coverage endpoints.
type CoverageParams struct {
	From         string
	To           string
	Campaign     string
	AcademicYear string
	CourseYear   string
}

// CoverageService computes survey coverage against roster or enrollment denominators.
type CoverageService struct {
	surveys         coverageSurveyReader
	roster          coverageRosterCounter
	enrollments     coverageEnrollmentReader
	metrics         *MetricsService
	logger          *zap.Logger
	defaultCampaign string
}

// NewCoverageService constructs a CoverageService.
func NewCoverageService(surveys coverageSurveyReader, roster coverageRosterCounter, enrollments coverageEnrollmentReader, metrics *MetricsService, logger *zap.Logger, defaultCampaign string) *CoverageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCampaign == "" {
		defaultCampaign = models.DefaultCampaign
	}
	return &CoverageService{
		surveys:         surveys,
		roster:          roster,
		enrollments:     enrollments,
		metrics:         metrics,
		logger:          logger,
		defaultCampaign: defaultCampaign,
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISOTime accepts ISO-8601 datetimes and dates. Values without a zone are UTC.
func ParseISOTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	candidates := []string{raw}
	// An unescaped "+05:00" offset arrives as " 05:00" once the query string is decoded.
	if idx := strings.LastIndex(raw, " "); idx > len("2006-01-02") {
		candidates = append(candidates, raw[:idx]+"+"+raw[idx+1:])
	}
	for _, candidate := range candidates {
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, candidate, time.UTC); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ParseTimeRange validates the mandatory reporting window.
func ParseTimeRange(from, to string) (models.TimeRange, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return models.TimeRange{}, appErrors.Clone(appErrors.ErrTimeRangeRequired, "from/to query params are required.")
	}
	start, ok := ParseISOTime(from)
	if !ok {
		return models.TimeRange{}, appErrors.Clone(appErrors.ErrInvalidTimeRange, "from/to must be ISO datetime.")
	}
	end, ok := ParseISOTime(to)
	if !ok {
		return models.TimeRange{}, appErrors.Clone(appErrors.ErrInvalidTimeRange, "from/to must be ISO datetime.")
	}
	if !start.Before(end) {
		return models.TimeRange{}, appErrors.Clone(appErrors.ErrInvalidTimeRange, "from must be earlier than to.")
	}
	return models.TimeRange{From: start, To: end}, nil
}

// ParseCourseYear parses an optional course year in 1..5.
func ParseCourseYear(raw string, required bool) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, appErrors.Clone(appErrors.ErrCourseYearRequired, "course_year query param is required.")
		}
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be an integer.")
	}
	if year < 1 || year > models.GraduateCourseYear {
		return nil, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be between 1 and 5.")
	}
	return &year, nil
}

// CourseYearUse tells ParseQuery how a report treats the course_year parameter.
type CourseYearUse int

const (
	// CourseYearIgnored drops course_year without validating it.
	CourseYearIgnored CourseYearUse = iota
	// CourseYearOptional narrows the report when course_year is present.
	CourseYearOptional
	// CourseYearRequired rejects requests without course_year.
	CourseYearRequired
)

// ParseQuery validates every parameter before any query runs.
func (s *CoverageService) ParseQuery(params CoverageParams, use CourseYearUse) (models.CoverageQuery, error) {
	rng, err := ParseTimeRange(params.From, params.To)
	if err != nil {
		return models.CoverageQuery{}, err
	}
	var courseYear *int
	if use != CourseYearIgnored {
		courseYear, err = ParseCourseYear(params.CourseYear, use == CourseYearRequired)
		if err != nil {
			return models.CoverageQuery{}, err
		}
	}
	campaign := strings.TrimSpace(params.Campaign)
	if campaign == "" {
		campaign = s.defaultCampaign
	}
	return models.CoverageQuery{
		Range:        rng,
		Campaign:     campaign,
		AcademicYear: strings.TrimSpace(params.AcademicYear),
		CourseYear:   courseYear,
	}, nil
}

// LatestPerStudent keeps one row per student: the greatest by (submitted_at, created_at, id).
func LatestPerStudent(rows []models.SurveyWindowRow) []models.SurveyWindowRow {
	latest := make(map[string]models.SurveyWindowRow, len(rows))
	for _, row := range rows {
		current, ok := latest[row.StudentID]
		if !ok || responseAfter(row, current) {
			latest[row.StudentID] = row
		}
	}
	result := make([]models.SurveyWindowRow, 0, len(latest))
	for _, row := range latest {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result
}

func responseAfter(a, b models.SurveyWindowRow) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// CoveragePercent is responded/total as a percentage rounded to two decimals, or 0 when total is 0.
func CoveragePercent(responded, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(responded)/float64(total)*100*100) / 100
}

var (
	employedTokens   = []string{"ishlayapman", "ишлаяпман", "работаю", "employed"}
	unemployedTokens = []string{"ishlamayapman", "ишламаяпман", "не работаю", "unemployed", "not employed"}
)

// IsEmployed matches employment_status against the employed phrasings the bots send.
// Negative phrasings are checked first since "unemployed" contains "employed".
func IsEmployed(status string) bool {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return false
	}
	for _, token := range unemployedTokens {
		if strings.Contains(normalized, token) {
			return false
		}
	}
	for _, token := range employedTokens {
		if strings.Contains(normalized, token) {
			return true
		}
	}
	return false
}

// ResolveDenominator picks the denominator source once per request.
func (s *CoverageService) ResolveDenominator(ctx context.Context, campaign, academicYear string) (models.DenominatorSource, error) {
	if academicYear != "" {
		return models.DenominatorSource{Kind: models.DenominatorEnrollmentTotals, AcademicYear: academicYear}, nil
	}
	start := time.Now()
	latest, err := s.enrollments.LatestAcademicYear(ctx, campaign)
	s.observe("coverage_latest_academic_year", start)
	if err != nil {
		return models.DenominatorSource{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve academic year")
	}
	if latest == "" {
		return models.DenominatorSource{Kind: models.DenominatorRosterCount}, nil
	}
	return models.DenominatorSource{Kind: models.DenominatorEnrollmentTotals, AcademicYear: latest}, nil
}

// totals returns bucket denominators. Enrollment totals never hold graduates, so
// course year 5 is always counted from the active roster.
func (s *CoverageService) totals(ctx context.Context, src models.DenominatorSource, campaign string, courseYear *int) ([]models.BucketCount, error) {
	graduatesOnly := courseYear != nil && *courseYear == models.GraduateCourseYear
	if src.Kind == models.DenominatorRosterCount || graduatesOnly {
		return s.countRoster(ctx, campaign, courseYear)
	}

	start := time.Now()
	sums, err := s.enrollments.Sum(ctx, campaign, src.AcademicYear, courseYear)
	s.observe("coverage_enrollment_sum", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum enrollment totals")
	}
	if courseYear != nil {
		return sums, nil
	}
	graduateYear := models.GraduateCourseYear
	graduates, err := s.countRoster(ctx, campaign, &graduateYear)
	if err != nil {
		return nil, err
	}
	return append(sums, graduates...), nil
}

func (s *CoverageService) countRoster(ctx context.Context, campaign string, courseYear *int) ([]models.BucketCount, error) {
	start := time.Now()
	counts, err := s.roster.CountActive(ctx, campaign, courseYear)
	s.observe("coverage_roster_count", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count roster")
	}
	return counts, nil
}

func (s *CoverageService) latestResponses(ctx context.Context, q models.CoverageQuery) ([]models.SurveyWindowRow, error) {
	start := time.Now()
	rows, err := s.surveys.Window(ctx, q.Range.From, q.Range.To, q.Campaign)
	s.observe("coverage_survey_window", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load survey responses")
	}
	latest := LatestPerStudent(rows)
	if q.CourseYear == nil {
		return latest, nil
	}
	filtered := latest[:0]
	for _, row := range latest {
		if row.CourseYear == *q.CourseYear {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// build resolves the denominator source, loads both sides and joins them.
func (s *CoverageService) build(ctx context.Context, report string, q models.CoverageQuery) (*coverageIndex, error) {
	src, err := s.ResolveDenominator(ctx, q.Campaign, q.AcademicYear)
	if err != nil {
		return nil, err
	}
	totals, err := s.totals(ctx, src, q.Campaign, q.CourseYear)
	if err != nil {
		return nil, err
	}
	latest, err := s.latestResponses(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("coverage report",
		zap.String("report", report),
		zap.String("campaign", q.Campaign),
		zap.String("denominator", string(src.Kind)),
		zap.String("academic_year", src.AcademicYear),
		zap.Int("buckets", len(totals)),
		zap.Int("responses", len(latest)),
	)
	return newCoverageIndex(totals, latest), nil
}

// CourseYearCoverage returns exactly one row per course year 1..5. The report always
// spans every year, so a course year on the query is ignored.
func (s *CoverageService) CourseYearCoverage(ctx context.Context, q models.CoverageQuery) ([]models.CourseYearCoverage, error) {
	q.CourseYear = nil
	idx, err := s.build(ctx, "course_year", q)
	if err != nil {
		return nil, err
	}
	return idx.byYear(), nil
}

// ProgramCoverage returns one row per program, optionally narrowed to a course year.
func (s *CoverageService) ProgramCoverage(ctx context.Context, q models.CoverageQuery) ([]models.ProgramCoverage, error) {
	idx, err := s.build(ctx, "program", q)
	if err != nil {
		return nil, err
	}
	programs := idx.programs()
	result := make([]models.ProgramCoverage, 0, len(programs))
	for _, program := range programs {
		total, responded := idx.programTotals(program.ID)
		result = append(result, models.ProgramCoverage{
			ProgramID:       program.ID,
			ProgramName:     program.Name,
			Total:           total,
			Responded:       responded,
			CoveragePercent: CoveragePercent(responded, total),
		})
	}
	return result, nil
}

// ProgramCourseMatrix returns the full program by course year cross product.
func (s *CoverageService) ProgramCourseMatrix(ctx context.Context, q models.CoverageQuery) (*models.ProgramCourseMatrix, error) {
	q.CourseYear = nil
	idx, err := s.build(ctx, "matrix", q)
	if err != nil {
		return nil, err
	}
	programs := idx.programs()
	cells := make([]models.MatrixCell, 0, len(programs)*len(models.CourseYears))
	for _, program := range programs {
		for _, year := range models.CourseYears {
			key := bucketKey{programID: program.ID, courseYear: year}
			total, responded := idx.totals[key], len(idx.responded[key])
			cells = append(cells, models.MatrixCell{
				ProgramID:       program.ID,
				CourseYear:      year,
				Total:           total,
				Responded:       responded,
				CoveragePercent: CoveragePercent(responded, total),
			})
		}
	}
	years := make([]int, len(models.CourseYears))
	copy(years, models.CourseYears)
	return &models.ProgramCourseMatrix{Years: years, Programs: programs, Cells: cells}, nil
}

// ProgramDetailsByYear breaks one course year down per program with the employment split,
// largest cohorts first.
func (s *CoverageService) ProgramDetailsByYear(ctx context.Context, q models.CoverageQuery) ([]models.ProgramYearDetail, error) {
	if q.CourseYear == nil {
		return nil, appErrors.Clone(appErrors.ErrCourseYearRequired, "course_year query param is required.")
	}
	idx, err := s.build(ctx, "program_details", q)
	if err != nil {
		return nil, err
	}
	programs := idx.programs()
	result := make([]models.ProgramYearDetail, 0, len(programs))
	for _, program := range programs {
		total, responded := idx.programTotals(program.ID)
		employed := idx.employed[program.ID]
		result = append(result, models.ProgramYearDetail{
			ProgramID:       program.ID,
			ProgramName:     program.Name,
			Total:           total,
			Responded:       responded,
			CoveragePercent: CoveragePercent(responded, total),
			Employed:        employed,
			Unemployed:      responded - employed,
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Total > result[j].Total })
	return result, nil
}

// EnrollmentOverview returns one row per denominator bucket with per-year and overall
// rollups. Responses whose bucket has no denominator row are left out of every figure,
// so the overall coverage never exceeds what the totals allow.
func (s *CoverageService) EnrollmentOverview(ctx context.Context, q models.CoverageQuery) (*models.EnrollmentOverview, error) {
	q.CourseYear = nil
	idx, err := s.build(ctx, "overview", q)
	if err != nil {
		return nil, err
	}

	overview := &models.EnrollmentOverview{ByProgram: []models.OverviewBucket{}}
	yearTotals := make(map[int]int, len(models.CourseYears))
	yearResponded := make(map[int]int, len(models.CourseYears))
	for _, program := range idx.programs() {
		for _, year := range models.CourseYears {
			key := bucketKey{programID: program.ID, courseYear: year}
			total, hasTotal := idx.totals[key]
			if !hasTotal {
				continue
			}
			responded := len(idx.responded[key])
			overview.ByProgram = append(overview.ByProgram, models.OverviewBucket{
				ProgramID:       program.ID,
				ProgramName:     program.Name,
				CourseYear:      year,
				Total:           total,
				Responded:       responded,
				CoveragePercent: CoveragePercent(responded, total),
			})
			overview.TotalStudents += total
			overview.TotalResponded += responded
			yearTotals[year] += total
			yearResponded[year] += responded
		}
	}

	overview.ByYear = make([]models.CourseYearCoverage, 0, len(models.CourseYears))
	for _, year := range models.CourseYears {
		overview.ByYear = append(overview.ByYear, models.CourseYearCoverage{
			CourseYear:      year,
			Total:           yearTotals[year],
			Responded:       yearResponded[year],
			CoveragePercent: CoveragePercent(yearResponded[year], yearTotals[year]),
		})
	}
	overview.CoveragePercent = CoveragePercent(overview.TotalResponded, overview.TotalStudents)
	return overview, nil
}

// AcademicYears lists the academic years that enrollment totals exist for, newest first.
func (s *CoverageService) AcademicYears(ctx context.Context, campaign string) ([]string, error) {
	if strings.TrimSpace(campaign) == "" {
		campaign = s.defaultCampaign
	}
	start := time.Now()
	years, err := s.enrollments.AcademicYears(ctx, campaign)
	s.observe("coverage_academic_years", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academic years")
	}
	if years == nil {
		years = []string{}
	}
	return years, nil
}

func (s *CoverageService) observe(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

type bucketKey struct {
	programID  string
	courseYear int
}

// coverageIndex joins denominators and latest responses by (program, course year).
type coverageIndex struct {
	totals    map[bucketKey]int
	responded map[bucketKey]map[string]struct{}
	employed  map[string]int
	names     map[string]string
}

func newCoverageIndex(totals []models.BucketCount, latest []models.SurveyWindowRow) *coverageIndex {
	idx := &coverageIndex{
		totals:    make(map[bucketKey]int),
		responded: make(map[bucketKey]map[string]struct{}),
		employed:  make(map[string]int),
		names:     make(map[string]string),
	}
	for _, row := range totals {
		key := bucketKey{programID: row.ProgramID, courseYear: row.CourseYear}
		idx.totals[key] += row.Total
		idx.names[row.ProgramID] = row.ProgramName
	}
	for _, row := range latest {
		key := bucketKey{programID: row.ProgramID, courseYear: row.CourseYear}
		students, ok := idx.responded[key]
		if !ok {
			students = make(map[string]struct{})
			idx.responded[key] = students
		}
		if _, seen := students[row.StudentID]; seen {
			continue
		}
		students[row.StudentID] = struct{}{}
		if IsEmployed(row.EmploymentStatus) {
			idx.employed[row.ProgramID]++
		}
		if _, ok := idx.names[row.ProgramID]; !ok {
			idx.names[row.ProgramID] = row.ProgramName
		}
	}
	return idx
}

// programs lists every program seen on either side, ordered by name then id.
func (idx *coverageIndex) programs() []models.ProgramRef {
	refs := make([]models.ProgramRef, 0, len(idx.names))
	for id, name := range idx.names {
		refs = append(refs, models.ProgramRef{ID: id, Name: name})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

func (idx *coverageIndex) programTotals(programID string) (int, int) {
	var total, responded int
	for _, year := range models.CourseYears {
		key := bucketKey{programID: programID, courseYear: year}
		total += idx.totals[key]
		responded += len(idx.responded[key])
	}
	return total, responded
}

func (idx *coverageIndex) byYear() []models.CourseYearCoverage {
	rows := make([]models.CourseYearCoverage, 0, len(models.CourseYears))
	for _, year := range models.CourseYears {
		var total int
		students := make(map[string]struct{})
		for key, value := range idx.totals {
			if key.courseYear == year {
				total += value
			}
		}
		for key, set := range idx.responded {
			if key.courseYear != year {
				continue
			}
			for student := range set {
				students[student] = struct{}{}
			}
		}
		rows = append(rows, models.CourseYearCoverage{
			CourseYear:      year,
			Total:           total,
			Responded:       len(students),
			CoveragePercent: CoveragePercent(len(students), total),
		})
	}
	return rows
}
