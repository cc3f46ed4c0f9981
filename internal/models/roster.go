package models

import "time"

// DefaultCampaign is used whenever a campaign label is omitted.
const DefaultCampaign = "default"

// AutoRosterCampaign marks roster rows created on first survey submission.
const AutoRosterCampaign = "bot2_auto"

// RosterEntry is one student's current enrollment state.
type RosterEntry struct {
	ID                string    `db:"id" json:"id"`
	StudentExternalID string    `db:"student_external_id" json:"student_external_id"`
	ProgramID         string    `db:"program_id" json:"program_id"`
	ProgramName       string    `db:"program_name" json:"program_name,omitempty"`
	CourseYear        int       `db:"course_year" json:"course_year"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	Campaign          string    `db:"roster_campaign" json:"campaign"`
	Metadata          JSONMap   `db:"metadata" json:"metadata"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// RosterRow is a validated import row ready to be upserted.
type RosterRow struct {
	StudentExternalID string `validate:"required,max=100"`
	ProgramID         string `validate:"required"`
	CourseYear        int    `validate:"min=1,max=5"`
	IsActive          bool
	Campaign          string `validate:"required,max=64"`
}

// RosterFilter narrows roster listings.
type RosterFilter struct {
	Campaign   string
	ProgramID  string
	CourseYear *int
	Active     *bool
	Search     string
	Page       int
	PageSize   int
}

// RosterImportError reports a rejected import row by its one-based position.
type RosterImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// RosterImportResult summarises a bulk import.
type RosterImportResult struct {
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Errors  []RosterImportError `json:"errors"`
}
