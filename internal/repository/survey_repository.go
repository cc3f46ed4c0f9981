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

// SurveyRepository persists bot2 students and their survey responses.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository constructs a SurveyRepository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// Submit stores a submission in one transaction: the roster is created when
// missing, the student is upserted and the response for (roster, campaign) is
// inserted or overwritten. Program and course year always come from the roster.
func (r *SurveyRepository) Submit(ctx context.Context, write models.SurveyWrite) (*models.SurveySubmitResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin survey submit tx: %w", err)
	}

	roster, err := r.ensureRoster(ctx, tx, write)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	studentID, err := r.upsertStudent(ctx, tx, write, roster.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	sub := write.Submission
	consents := sub.Consents
	if consents == nil {
		consents = models.JSONMap{}
	}
	answers := sub.Answers
	if answers == nil {
		answers = models.JSONMap{}
	}

	const upsert = `INSERT INTO bot2_survey_responses (id, student_id, roster_id, program_id, course_year, survey_campaign,
employment_status, employment_company, employment_role, suggestions, consents, answers, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
ON CONFLICT (roster_id, survey_campaign) DO UPDATE SET
student_id = EXCLUDED.student_id, program_id = EXCLUDED.program_id, course_year = EXCLUDED.course_year,
employment_status = EXCLUDED.employment_status, employment_company = EXCLUDED.employment_company,
employment_role = EXCLUDED.employment_role, suggestions = EXCLUDED.suggestions,
consents = EXCLUDED.consents, answers = EXCLUDED.answers,
submitted_at = GREATEST(bot2_survey_responses.submitted_at, EXCLUDED.submitted_at),
updated_at = EXCLUDED.updated_at
RETURNING id`
	now := time.Now().UTC()
	var responseID string
	if err := tx.GetContext(ctx, &responseID, upsert,
		uuid.NewString(), studentID, roster.ID, roster.ProgramID, roster.CourseYear, write.Campaign,
		sub.EmploymentStatus, sub.EmploymentCompany, sub.EmploymentRole, sub.Suggestions,
		consents, answers, write.SubmittedAt, now,
	); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("upsert survey response: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit survey submit tx: %w", err)
	}
	return &models.SurveySubmitResult{
		OK:         true,
		Roster:     models.SurveyRosterRef{ProgramID: roster.ProgramID, CourseYear: roster.CourseYear},
		ResponseID: responseID,
	}, nil
}

func (r *SurveyRepository) ensureRoster(ctx context.Context, tx *sqlx.Tx, write models.SurveyWrite) (*models.RosterEntry, error) {
	var roster models.RosterEntry
	if write.RosterID != "" {
		const lookup = `SELECT id, program_id, course_year FROM student_roster WHERE id = $1`
		if err := tx.GetContext(ctx, &roster, lookup, write.RosterID); err != nil {
			return nil, fmt.Errorf("get roster for survey: %w", err)
		}
		return &roster, nil
	}

	// A concurrent submission may have created the row; keep whatever it stored.
	const insert = `INSERT INTO student_roster (id, student_external_id, program_id, course_year, is_active, roster_campaign, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $7)
ON CONFLICT (student_external_id) DO UPDATE SET updated_at = student_roster.updated_at
RETURNING id, program_id, course_year`
	now := time.Now().UTC()
	if err := tx.GetContext(ctx, &roster, insert, uuid.NewString(), write.Submission.StudentExternalID, write.ProgramID, write.CourseYear, models.AutoRosterCampaign, models.JSONMap{}, now); err != nil {
		return nil, fmt.Errorf("create roster for survey: %w", err)
	}
	return &roster, nil
}

func (r *SurveyRepository) upsertStudent(ctx context.Context, tx *sqlx.Tx, write models.SurveyWrite, rosterID string) (string, error) {
	sub := write.Submission
	gender := sub.Gender
	if gender == "" {
		gender = models.GenderUnspecified
	}
	now := time.Now().UTC()

	// The telegram account wins so a student whose external id changed keeps one row.
	if sub.TelegramUserID != nil {
		var id string
		err := tx.GetContext(ctx, &id, `SELECT id FROM bot2_students WHERE telegram_user_id = $1 FOR UPDATE`, *sub.TelegramUserID)
		switch {
		case err == nil:
			const update = `UPDATE bot2_students SET student_external_id = $2, roster_id = $3, username = $4, first_name = $5,
last_name = $6, gender = $7, phone = $8, region_id = $9, updated_at = $10 WHERE id = $1`
			if _, err := tx.ExecContext(ctx, update, id, sub.StudentExternalID, rosterID, sub.Username, sub.FirstName, sub.LastName, gender, sub.Phone, write.RegionID, now); err != nil {
				return "", fmt.Errorf("update bot2 student: %w", err)
			}
			return id, nil
		case !errors.Is(err, sql.ErrNoRows):
			return "", fmt.Errorf("get bot2 student by telegram id: %w", err)
		}
	}

	const upsert = `INSERT INTO bot2_students (id, student_external_id, roster_id, telegram_user_id, username, first_name, last_name, gender, phone, region_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (student_external_id) DO UPDATE SET
roster_id = EXCLUDED.roster_id, telegram_user_id = EXCLUDED.telegram_user_id, username = EXCLUDED.username,
first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, gender = EXCLUDED.gender,
phone = EXCLUDED.phone, region_id = EXCLUDED.region_id, updated_at = EXCLUDED.updated_at
RETURNING id`
	var id string
	if err := tx.GetContext(ctx, &id, upsert, uuid.NewString(), sub.StudentExternalID, rosterID, sub.TelegramUserID, sub.Username, sub.FirstName, sub.LastName, gender, sub.Phone, write.RegionID, now); err != nil {
		return "", fmt.Errorf("upsert bot2 student: %w", err)
	}
	return id, nil
}

// Window returns every submitted response of a campaign inside [from, to].
func (r *SurveyRepository) Window(ctx context.Context, from, to time.Time, campaign string) ([]models.SurveyWindowRow, error) {
	const query = `SELECT s.id, s.student_id, s.program_id, c.name AS program_name, s.course_year, s.employment_status, s.submitted_at, s.created_at
FROM bot2_survey_responses s
JOIN catalog_items c ON c.id = s.program_id
WHERE s.submitted_at >= $1 AND s.submitted_at <= $2 AND s.survey_campaign = $3`
	var rows []models.SurveyWindowRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to, campaign); err != nil {
		return nil, fmt.Errorf("list survey window: %w", err)
	}
	return rows, nil
}

// List returns survey responses with pagination, newest submissions first.
func (r *SurveyRepository) List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, int, error) {
	var (
		conditions = []string{"1=1"}
		args       []interface{}
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("s.submitted_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("s.submitted_at <= $%d", len(args)))
	}
	if filter.Campaign != "" {
		args = append(args, filter.Campaign)
		conditions = append(conditions, fmt.Sprintf("s.survey_campaign = $%d", len(args)))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("s.program_id = $%d", len(args)))
	}
	if filter.CourseYear != nil {
		args = append(args, *filter.CourseYear)
		conditions = append(conditions, fmt.Sprintf("s.course_year = $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT s.id, s.student_id, s.roster_id, s.program_id, c.name AS program_name, s.course_year, s.survey_campaign,
s.employment_status, s.employment_company, s.employment_role, s.suggestions, s.consents, s.answers, s.submitted_at, s.created_at, s.updated_at
FROM bot2_survey_responses s
JOIN catalog_items c ON c.id = s.program_id%s
ORDER BY s.submitted_at DESC NULLS LAST, s.created_at DESC LIMIT %d OFFSET %d`, where, size, (page-1)*size)

	var responses []models.SurveyResponse
	if err := r.db.SelectContext(ctx, &responses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list survey responses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bot2_survey_responses s"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count survey responses: %w", err)
	}
	return responses, total, nil
}
