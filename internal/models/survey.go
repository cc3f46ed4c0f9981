package models

import "time"

// Gender values accepted for bot2 students.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
	GenderUnspecified = "unspecified"
)

// Bot2Student is the survey bot's view of a student.
type Bot2Student struct {
	ID                string    `db:"id" json:"id"`
	StudentExternalID string    `db:"student_external_id" json:"student_external_id"`
	RosterID          string    `db:"roster_id" json:"roster_id"`
	TelegramUserID    *int64    `db:"telegram_user_id" json:"telegram_user_id,omitempty"`
	Username          string    `db:"username" json:"username"`
	FirstName         string    `db:"first_name" json:"first_name"`
	LastName          string    `db:"last_name" json:"last_name"`
	Gender            string    `db:"gender" json:"gender"`
	Phone             string    `db:"phone" json:"phone"`
	RegionID          *string   `db:"region_id" json:"region_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// SurveyResponse is the single answer row kept per (roster, campaign).
type SurveyResponse struct {
	ID                string     `db:"id" json:"id"`
	StudentID         string     `db:"student_id" json:"student_id"`
	RosterID          string     `db:"roster_id" json:"roster_id"`
	ProgramID         string     `db:"program_id" json:"program_id"`
	ProgramName       string     `db:"program_name" json:"program_name,omitempty"`
	CourseYear        int        `db:"course_year" json:"course_year"`
	Campaign          string     `db:"survey_campaign" json:"campaign"`
	EmploymentStatus  string     `db:"employment_status" json:"employment_status"`
	EmploymentCompany string     `db:"employment_company" json:"employment_company"`
	EmploymentRole    string     `db:"employment_role" json:"employment_role"`
	Suggestions       string     `db:"suggestions" json:"suggestions"`
	Consents          JSONMap    `db:"consents" json:"consents"`
	Answers           JSONMap    `db:"answers" json:"answers"`
	SubmittedAt       *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// SurveySubmission is the payload posted by the survey bot.
type SurveySubmission struct {
	StudentExternalID string  `json:"student_external_id" validate:"required,max=100"`
	TelegramUserID    *int64  `json:"telegram_user_id"`
	Username          string  `json:"username" validate:"max=150"`
	FirstName         string  `json:"first_name" validate:"max=150"`
	LastName          string  `json:"last_name" validate:"max=150"`
	Gender            string  `json:"gender" validate:"omitempty,oneof=male female other unspecified"`
	Phone             string  `json:"phone" validate:"max=50"`
	RegionID          string  `json:"region_id"`
	ProgramID         string  `json:"program_id"`
	CourseYear        *int    `json:"course_year"`
	Campaign          string  `json:"survey_campaign" validate:"max=64"`
	EmploymentStatus  string  `json:"employment_status" validate:"max=100"`
	EmploymentCompany string  `json:"employment_company" validate:"max=255"`
	EmploymentRole    string  `json:"employment_role" validate:"max=255"`
	Suggestions       string  `json:"suggestions"`
	Consents          JSONMap `json:"consents"`
	Answers           JSONMap `json:"answers"`
}

// SurveySubmitResult is returned to the bot after a successful submission.
type SurveySubmitResult struct {
	OK         bool            `json:"ok"`
	Roster     SurveyRosterRef `json:"roster"`
	ResponseID string          `json:"response_id"`
}

// SurveyRosterRef echoes the roster values copied onto the response.
type SurveyRosterRef struct {
	ProgramID  string `json:"program_id"`
	CourseYear int    `json:"course_year"`
}

// SurveyFilter narrows survey listings.
type SurveyFilter struct {
	From       *time.Time
	To         *time.Time
	Campaign   string
	ProgramID  string
	CourseYear *int
	Page       int
	PageSize   int
}

// SurveyWrite is a validated submission ready to be persisted. RosterID is empty
// when the roster has to be created from ProgramID and CourseYear.
type SurveyWrite struct {
	Submission  SurveySubmission
	RosterID    string
	ProgramID   string
	CourseYear  int
	Campaign    string
	RegionID    *string
	SubmittedAt time.Time
}
