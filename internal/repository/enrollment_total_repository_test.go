package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

func TestEnrollmentTotalUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentTotalRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (program_id, course_year, academic_year, campaign) DO UPDATE")).
		WithArgs(sqlmock.AnyArg(), "prog-a", 2, 120, "2025-2026", "default", true, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("e-1", now, now))

	total := &models.EnrollmentTotal{ProgramID: "prog-a", CourseYear: 2, StudentCount: 120, AcademicYear: "2025-2026", Campaign: "default", IsActive: true}
	require.NoError(t, repo.Upsert(context.Background(), total))
	assert.Equal(t, "e-1", total.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentTotalSum(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentTotalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.is_active = TRUE AND e.campaign = $1 AND e.academic_year = $2 GROUP BY")).
		WithArgs("default", "2025-2026").
		WillReturnRows(sqlmock.NewRows([]string{"program_id", "program_name", "course_year", "total"}).
			AddRow("prog-a", "PA", 1, 40).
			AddRow("prog-a", "PA", 2, 35))

	sums, err := repo.Sum(context.Background(), "default", "2025-2026", nil)
	require.NoError(t, err)
	assert.Len(t, sums, 2)
	assert.Equal(t, 35, sums[1].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentTotalAcademicYears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentTotalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(academic_year), '')")).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("2025-2026"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT academic_year")).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"academic_year"}).AddRow("2025-2026").AddRow("2024-2025"))

	latest, err := repo.LatestAcademicYear(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", latest)

	years, err := repo.AcademicYears(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-2026", "2024-2025"}, years)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentTotalListIncludesResponded(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentTotalRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT s.roster_id)")).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"id", "program_id", "program_name", "course_year", "student_count", "academic_year", "campaign", "is_active", "notes", "created_at", "updated_at", "responded_count"}).
			AddRow("e-1", "prog-a", "PA", 1, 4, "2025-2026", "default", true, "", now, now, 1))

	totals, err := repo.List(context.Background(), models.EnrollmentTotalFilter{Campaign: "default"})
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 1, totals[0].RespondedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
