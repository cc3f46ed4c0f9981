package models

import "time"

// EnrollmentTotal is a declared headcount for (program, course year, academic year, campaign).
type EnrollmentTotal struct {
	ID              string    `db:"id" json:"id"`
	ProgramID       string    `db:"program_id" json:"program_id" validate:"required"`
	ProgramName     string    `db:"program_name" json:"program_name,omitempty"`
	CourseYear      int       `db:"course_year" json:"course_year" validate:"min=1,max=4"`
	StudentCount    int       `db:"student_count" json:"student_count" validate:"min=0"`
	AcademicYear    string    `db:"academic_year" json:"academic_year" validate:"required,academic_year"`
	Campaign        string    `db:"campaign" json:"campaign" validate:"required,max=64"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	Notes           string    `db:"notes" json:"notes"`
	RespondedCount  int       `db:"responded_count" json:"responded_count"`
	CoveragePercent float64   `db:"-" json:"coverage_percent"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentTotalFilter narrows enrollment listings.
type EnrollmentTotalFilter struct {
	Campaign     string
	AcademicYear string
	ProgramID    string
	CourseYear   *int
	Active       *bool
}
