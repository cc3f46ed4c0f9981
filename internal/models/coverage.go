package models

import "time"

// CourseYears is the fixed set of buckets every coverage report renders. Year 5 denotes graduates.
var CourseYears = []int{1, 2, 3, 4, 5}

// GraduateCourseYear is never tracked by enrollment totals.
const GraduateCourseYear = 5

// TimeRange is an inclusive reporting window.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// DenominatorKind selects where bucket totals come from.
type DenominatorKind string

const (
	DenominatorRosterCount      DenominatorKind = "roster_count"
	DenominatorEnrollmentTotals DenominatorKind = "enrollment_totals"
)

// DenominatorSource is resolved once per report request.
type DenominatorSource struct {
	Kind         DenominatorKind
	AcademicYear string
}

// CoverageQuery carries the parsed parameters shared by every coverage report.
type CoverageQuery struct {
	Range        TimeRange
	Campaign     string
	AcademicYear string
	CourseYear   *int
}

// BucketCount is a (program, course year) total coming from either denominator source.
type BucketCount struct {
	ProgramID   string `db:"program_id"`
	ProgramName string `db:"program_name"`
	CourseYear  int    `db:"course_year"`
	Total       int    `db:"total"`
}

// SurveyWindowRow is a submitted response inside a reporting window.
type SurveyWindowRow struct {
	ID               string    `db:"id"`
	StudentID        string    `db:"student_id"`
	ProgramID        string    `db:"program_id"`
	ProgramName      string    `db:"program_name"`
	CourseYear       int       `db:"course_year"`
	EmploymentStatus string    `db:"employment_status"`
	SubmittedAt      time.Time `db:"submitted_at"`
	CreatedAt        time.Time `db:"created_at"`
}

// CourseYearCoverage is one row of the per-year report.
type CourseYearCoverage struct {
	CourseYear      int     `json:"course_year"`
	Total           int     `json:"total"`
	Responded       int     `json:"responded"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// ProgramCoverage is one row of the per-program report.
type ProgramCoverage struct {
	ProgramID       string  `json:"program_id"`
	ProgramName     string  `json:"program_name"`
	Total           int     `json:"total"`
	Responded       int     `json:"responded"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// ProgramRef names a program in the matrix header.
type ProgramRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatrixCell is one (program, course year) cell.
type MatrixCell struct {
	ProgramID       string  `json:"program_id"`
	CourseYear      int     `json:"course_year"`
	Total           int     `json:"total"`
	Responded       int     `json:"responded"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// ProgramCourseMatrix is the full program by course year cross product.
type ProgramCourseMatrix struct {
	Years    []int        `json:"years"`
	Programs []ProgramRef `json:"programs"`
	Cells    []MatrixCell `json:"cells"`
}

// ProgramYearDetail adds the employment split to a per-program row.
type ProgramYearDetail struct {
	ProgramID       string  `json:"program_id"`
	ProgramName     string  `json:"program_name"`
	Total           int     `json:"total"`
	Responded       int     `json:"responded"`
	CoveragePercent float64 `json:"coverage_percent"`
	Employed        int     `json:"employed"`
	Unemployed      int     `json:"unemployed"`
}

// OverviewBucket is a (program, course year) row of the enrollment overview.
type OverviewBucket struct {
	ProgramID       string  `json:"program_id"`
	ProgramName     string  `json:"program_name"`
	CourseYear      int     `json:"course_year"`
	Total           int     `json:"total"`
	Responded       int     `json:"responded"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// EnrollmentOverview rolls buckets up per year and overall.
type EnrollmentOverview struct {
	TotalStudents   int                  `json:"total_students"`
	TotalResponded  int                  `json:"total_responded"`
	CoveragePercent float64              `json:"coverage_percent"`
	ByYear          []CourseYearCoverage `json:"by_year"`
	ByProgram       []OverviewBucket     `json:"by_program"`
}
