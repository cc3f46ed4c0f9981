package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

const insertAdmissionQuery = `INSERT INTO admissions_2026_applications (id, applicant_id, direction_id, track_id, status, answers, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id, applicant_id, direction_id, track_id, status, answers, submitted_at, created_at`

const insertAcademyQuery = `INSERT INTO polito_academy_requests (id, applicant_id, subject_id, status, answers, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING id, applicant_id, subject_id, status, answers, submitted_at, created_at`

// IntakeRepository persists bot1 applicants and their applications.
type IntakeRepository struct {
	db *sqlx.DB
}

// NewIntakeRepository constructs an IntakeRepository.
func NewIntakeRepository(db *sqlx.DB) *IntakeRepository {
	return &IntakeRepository{db: db}
}

// Submit upserts the applicant and inserts a new application in one transaction.
func (r *IntakeRepository) Submit(ctx context.Context, write models.IntakeWrite) (*models.IntakeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin intake submit tx: %w", err)
	}

	now := time.Now().UTC()
	applicantID, err := r.upsertApplicant(ctx, tx, write.Applicant, now)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	var result models.IntakeResult
	switch write.Kind {
	case models.IntakeAdmissions2026:
		err = tx.GetContext(ctx, &result, insertAdmissionQuery,
			uuid.NewString(), applicantID, write.DirectionID, write.TrackID, write.Status, write.Answers, write.SubmittedAt, now)
	case models.IntakePolitoAcademy:
		err = tx.GetContext(ctx, &result, insertAcademyQuery,
			uuid.NewString(), applicantID, write.SubjectID, write.Status, write.Answers, write.SubmittedAt, now)
	default:
		err = fmt.Errorf("unknown intake form %q", write.Kind)
	}
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("insert %s application: %w", write.Kind, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit intake submit tx: %w", err)
	}
	return &result, nil
}

// upsertApplicant overwrites the profile on every submission so the latest bot data wins.
func (r *IntakeRepository) upsertApplicant(ctx context.Context, tx *sqlx.Tx, applicant models.ApplicantWrite, now time.Time) (string, error) {
	const upsert = `INSERT INTO bot1_applicants (id, telegram_user_id, telegram_chat_id, username, first_name, last_name, phone, email, region_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (telegram_user_id) DO UPDATE SET
telegram_chat_id = EXCLUDED.telegram_chat_id, username = EXCLUDED.username, first_name = EXCLUDED.first_name,
last_name = EXCLUDED.last_name, phone = EXCLUDED.phone, email = EXCLUDED.email, region_id = EXCLUDED.region_id,
updated_at = EXCLUDED.updated_at
RETURNING id`
	var id string
	if err := tx.GetContext(ctx, &id, upsert,
		uuid.NewString(), applicant.TelegramUserID, applicant.TelegramChatID, applicant.Username,
		applicant.FirstName, applicant.LastName, applicant.Phone, applicant.Email, applicant.RegionID, now,
	); err != nil {
		return "", fmt.Errorf("upsert bot1 applicant: %w", err)
	}
	return id, nil
}
