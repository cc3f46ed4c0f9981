package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

const rosterSelect = `SELECT r.id, r.student_external_id, r.program_id, c.name AS program_name, r.course_year, r.is_active, r.roster_campaign, r.metadata, r.created_at, r.updated_at
FROM student_roster r
JOIN catalog_items c ON c.id = r.program_id`

// RosterRepository persists the enrollment ledger.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// FindByExternalID returns nil when the student has no roster row.
func (r *RosterRepository) FindByExternalID(ctx context.Context, externalID string) (*models.RosterEntry, error) {
	var entry models.RosterEntry
	if err := r.db.GetContext(ctx, &entry, rosterSelect+" WHERE r.student_external_id = $1", externalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get roster entry: %w", err)
	}
	return &entry, nil
}

// Upsert creates or updates the roster row keyed by external id. When the
// program, course year, campaign or active flag change, every survey response
// tied to the roster is rewritten in the same transaction.
func (r *RosterRepository) Upsert(ctx context.Context, row models.RosterRow) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin roster upsert tx: %w", err)
	}

	var existing models.RosterEntry
	err = tx.GetContext(ctx, &existing, `SELECT id, student_external_id, program_id, course_year, is_active, roster_campaign
FROM student_roster WHERE student_external_id = $1 FOR UPDATE`, row.StudentExternalID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return false, fmt.Errorf("lock roster entry: %w", err)
	}

	now := time.Now().UTC()
	if errors.Is(err, sql.ErrNoRows) {
		const insert = `INSERT INTO student_roster (id, student_external_id, program_id, course_year, is_active, roster_campaign, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
		if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), row.StudentExternalID, row.ProgramID, row.CourseYear, row.IsActive, row.Campaign, models.JSONMap{}, now); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("insert roster entry: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit roster upsert tx: %w", err)
		}
		return true, nil
	}

	changed := existing.ProgramID != row.ProgramID ||
		existing.CourseYear != row.CourseYear ||
		existing.Campaign != row.Campaign ||
		existing.IsActive != row.IsActive

	const update = `UPDATE student_roster SET program_id = $2, course_year = $3, is_active = $4, roster_campaign = $5, updated_at = $6 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, existing.ID, row.ProgramID, row.CourseYear, row.IsActive, row.Campaign, now); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("update roster entry: %w", err)
	}
	if changed {
		const sync = `UPDATE bot2_survey_responses SET program_id = $2, course_year = $3, updated_at = $4 WHERE roster_id = $1`
		if _, err := tx.ExecContext(ctx, sync, existing.ID, row.ProgramID, row.CourseYear, now); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("sync survey responses: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit roster upsert tx: %w", err)
	}
	return false, nil
}

// CountActive groups active roster rows of a campaign by program and course year.
func (r *RosterRepository) CountActive(ctx context.Context, campaign string, courseYear *int) ([]models.BucketCount, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT r.program_id, c.name AS program_name, r.course_year, COUNT(r.id) AS total
FROM student_roster r
JOIN catalog_items c ON c.id = r.program_id
WHERE r.is_active = TRUE AND r.roster_campaign = $1`)
	args := []interface{}{campaign}
	if courseYear != nil {
		args = append(args, *courseYear)
		sb.WriteString(fmt.Sprintf(" AND r.course_year = $%d", len(args)))
	}
	sb.WriteString(" GROUP BY r.program_id, c.name, r.course_year ORDER BY c.name, r.course_year")

	var counts []models.BucketCount
	if err := r.db.SelectContext(ctx, &counts, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("count active roster: %w", err)
	}
	return counts, nil
}

// List returns roster rows with pagination.
func (r *RosterRepository) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error) {
	var (
		conditions = []string{"1=1"}
		args       []interface{}
	)
	if filter.Campaign != "" {
		args = append(args, filter.Campaign)
		conditions = append(conditions, fmt.Sprintf("r.roster_campaign = $%d", len(args)))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("r.program_id = $%d", len(args)))
	}
	if filter.CourseYear != nil {
		args = append(args, *filter.CourseYear)
		conditions = append(conditions, fmt.Sprintf("r.course_year = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("r.is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(r.student_external_id) LIKE $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("%s%s ORDER BY r.student_external_id LIMIT %d OFFSET %d", rosterSelect, where, size, (page-1)*size)

	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list roster: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM student_roster r"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count roster: %w", err)
	}
	return entries, total, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
