package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

// EnrollmentTotalRepository persists declared headcounts per program and course year.
type EnrollmentTotalRepository struct {
	db *sqlx.DB
}

// NewEnrollmentTotalRepository constructs an EnrollmentTotalRepository.
func NewEnrollmentTotalRepository(db *sqlx.DB) *EnrollmentTotalRepository {
	return &EnrollmentTotalRepository{db: db}
}

// Upsert inserts or replaces the headcount for the (program, course year, academic year, campaign) tuple.
func (r *EnrollmentTotalRepository) Upsert(ctx context.Context, total *models.EnrollmentTotal) error {
	if total.ID == "" {
		total.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	const query = `INSERT INTO program_enrollments (id, program_id, course_year, student_count, academic_year, campaign, is_active, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (program_id, course_year, academic_year, campaign) DO UPDATE SET
student_count = EXCLUDED.student_count, is_active = EXCLUDED.is_active, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, total.ID, total.ProgramID, total.CourseYear, total.StudentCount, total.AcademicYear, total.Campaign, total.IsActive, total.Notes, now)
	if err := row.Scan(&total.ID, &total.CreatedAt, &total.UpdatedAt); err != nil {
		return fmt.Errorf("upsert enrollment total: %w", err)
	}
	return nil
}

// Sum adds up active headcounts of one campaign and academic year per program and course year.
func (r *EnrollmentTotalRepository) Sum(ctx context.Context, campaign, academicYear string, courseYear *int) ([]models.BucketCount, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT e.program_id, c.name AS program_name, e.course_year, COALESCE(SUM(e.student_count), 0) AS total
FROM program_enrollments e
JOIN catalog_items c ON c.id = e.program_id
WHERE e.is_active = TRUE AND e.campaign = $1 AND e.academic_year = $2`)
	args := []interface{}{campaign, academicYear}
	if courseYear != nil {
		args = append(args, *courseYear)
		sb.WriteString(fmt.Sprintf(" AND e.course_year = $%d", len(args)))
	}
	sb.WriteString(" GROUP BY e.program_id, c.name, e.course_year ORDER BY c.name, e.course_year")

	var sums []models.BucketCount
	if err := r.db.SelectContext(ctx, &sums, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("sum enrollment totals: %w", err)
	}
	return sums, nil
}

// LatestAcademicYear returns the greatest active academic year of a campaign or an empty string.
func (r *EnrollmentTotalRepository) LatestAcademicYear(ctx context.Context, campaign string) (string, error) {
	var year string
	const query = `SELECT COALESCE(MAX(academic_year), '') FROM program_enrollments WHERE is_active = TRUE AND campaign = $1`
	if err := r.db.GetContext(ctx, &year, query, campaign); err != nil {
		return "", fmt.Errorf("latest academic year: %w", err)
	}
	return year, nil
}

// AcademicYears lists distinct active academic years of a campaign, newest first.
func (r *EnrollmentTotalRepository) AcademicYears(ctx context.Context, campaign string) ([]string, error) {
	const query = `SELECT DISTINCT academic_year FROM program_enrollments WHERE is_active = TRUE AND campaign = $1 ORDER BY academic_year DESC`
	years := []string{}
	if err := r.db.SelectContext(ctx, &years, query, campaign); err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	return years, nil
}

// List returns headcounts together with the number of distinct rosters that submitted a matching response.
func (r *EnrollmentTotalRepository) List(ctx context.Context, filter models.EnrollmentTotalFilter) ([]models.EnrollmentTotal, error) {
	var (
		conditions = []string{"1=1"}
		args       []interface{}
	)
	if filter.Campaign != "" {
		args = append(args, filter.Campaign)
		conditions = append(conditions, fmt.Sprintf("e.campaign = $%d", len(args)))
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		conditions = append(conditions, fmt.Sprintf("e.academic_year = $%d", len(args)))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("e.program_id = $%d", len(args)))
	}
	if filter.CourseYear != nil {
		args = append(args, *filter.CourseYear)
		conditions = append(conditions, fmt.Sprintf("e.course_year = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("e.is_active = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT e.id, e.program_id, c.name AS program_name, e.course_year, e.student_count, e.academic_year, e.campaign,
e.is_active, e.notes, e.created_at, e.updated_at,
(SELECT COUNT(DISTINCT s.roster_id) FROM bot2_survey_responses s
 WHERE s.program_id = e.program_id AND s.course_year = e.course_year AND s.survey_campaign = e.campaign AND s.submitted_at IS NOT NULL) AS responded_count
FROM program_enrollments e
JOIN catalog_items c ON c.id = e.program_id
WHERE %s
ORDER BY c.name, e.course_year`, strings.Join(conditions, " AND "))

	var totals []models.EnrollmentTotal
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollment totals: %w", err)
	}
	return totals, nil
}
