package models

import "time"

// BreakdownDimension selects the grouping column of an intake breakdown.
type BreakdownDimension string

const (
	BreakdownDirection BreakdownDimension = "direction"
	BreakdownTrack     BreakdownDimension = "track"
	BreakdownSubject   BreakdownDimension = "subject"
)

// BreakdownCount is a raw grouped count as returned by the store.
type BreakdownCount struct {
	ID    *string `db:"id"`
	Label *string `db:"label"`
	Count int     `db:"count"`
}

// BreakdownRow is a grouped intake count. Only one of the id fields is set.
type BreakdownRow struct {
	Label       string  `json:"label"`
	Value       int     `json:"value"`
	DirectionID *string `json:"direction_id,omitempty"`
	TrackID     *string `json:"track_id,omitempty"`
	SubjectID   *string `json:"subject_id,omitempty"`
}

// ApplicationStatus tracks an intake application through review.
type ApplicationStatus string

const (
	ApplicationNew        ApplicationStatus = "new"
	ApplicationSubmitted  ApplicationStatus = "submitted"
	ApplicationInProgress ApplicationStatus = "in_progress"
	ApplicationApproved   ApplicationStatus = "approved"
	ApplicationRejected   ApplicationStatus = "rejected"
)

// Valid reports whether the status is one the review flow knows.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationNew, ApplicationSubmitted, ApplicationInProgress, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// IntakeKind names the form an application came through.
type IntakeKind string

const (
	IntakeAdmissions2026 IntakeKind = "admissions_2026"
	IntakePolitoAcademy  IntakeKind = "polito_academy"
)

// ApplicantPayload is the applicant block every bot1 form carries.
// region_id may hold a region code; region_code is tried when the id does not match.
type ApplicantPayload struct {
	TelegramUserID *int64 `json:"telegram_user_id"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
	Username       string `json:"username" validate:"max=150"`
	FirstName      string `json:"first_name" validate:"max=150"`
	LastName       string `json:"last_name" validate:"max=150"`
	Phone          string `json:"phone" validate:"max=50"`
	Email          string `json:"email" validate:"omitempty,email,max=254"`
	RegionID       string `json:"region_id"`
	RegionCode     string `json:"region_code"`
}

// AdmissionSubmission is the admissions 2026 form posted by the intake bot.
type AdmissionSubmission struct {
	ApplicantPayload
	DirectionID string            `json:"direction_id"`
	TrackID     string            `json:"track_id"`
	Status      ApplicationStatus `json:"status"`
	Answers     JSONMap           `json:"answers"`
}

// AcademySubmission is the Polito Academy request posted by the intake bot.
type AcademySubmission struct {
	ApplicantPayload
	SubjectID string            `json:"subject_id"`
	Status    ApplicationStatus `json:"status"`
	Answers   JSONMap           `json:"answers"`
}

// ApplicantWrite is the resolved applicant upserted by telegram user id.
type ApplicantWrite struct {
	TelegramUserID int64
	TelegramChatID *int64
	Username       string
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	RegionID       *string
}

// IntakeWrite is a validated application ready to be stored.
type IntakeWrite struct {
	Kind        IntakeKind
	Applicant   ApplicantWrite
	DirectionID *string
	TrackID     *string
	SubjectID   *string
	Status      ApplicationStatus
	Answers     JSONMap
	SubmittedAt *time.Time
}

// IntakeResult is returned to the bot once an application is stored.
type IntakeResult struct {
	ID          string            `db:"id" json:"id"`
	ApplicantID string            `db:"applicant_id" json:"applicant"`
	DirectionID *string           `db:"direction_id" json:"direction,omitempty"`
	TrackID     *string           `db:"track_id" json:"track,omitempty"`
	SubjectID   *string           `db:"subject_id" json:"subject,omitempty"`
	Status      ApplicationStatus `db:"status" json:"status"`
	Answers     JSONMap           `db:"answers" json:"answers"`
	SubmittedAt *time.Time        `db:"submitted_at" json:"submitted_at"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}
