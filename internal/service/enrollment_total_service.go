package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// ValidAcademicYear accepts "YYYY-YYYY" where the second year follows the first.
func ValidAcademicYear(value string) bool {
	m := academicYearPattern.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

// RegisterValidators installs the custom tags used by request models.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return ValidAcademicYear(fl.Field().String())
	})
}

type enrollmentTotalStore interface {
	Upsert(ctx context.Context, total *models.EnrollmentTotal) error
	List(ctx context.Context, filter models.EnrollmentTotalFilter) ([]models.EnrollmentTotal, error)
}

// EnrollmentTotalService manages declared headcounts used as coverage denominators.
type EnrollmentTotalService struct {
	repo      enrollmentTotalStore
	catalog   catalogLookup
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger

	defaultCampaign string
}

// NewEnrollmentTotalService constructs an EnrollmentTotalService.
func NewEnrollmentTotalService(repo enrollmentTotalStore, catalog catalogLookup, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, defaultCampaign string) *EnrollmentTotalService {
	if validate == nil {
		validate = validator.New()
		RegisterValidators(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCampaign == "" {
		defaultCampaign = models.DefaultCampaign
	}
	return &EnrollmentTotalService{
		repo:            repo,
		catalog:         catalog,
		audit:           audit,
		validator:       validate,
		logger:          logger,
		defaultCampaign: defaultCampaign,
	}
}

// EnrollmentTotalActor identifies the dashboard user writing a total.
type EnrollmentTotalActor struct {
	UserID    string
	IP        string
	UserAgent string
}

// Upsert creates or replaces the total for its (program, course year, academic year, campaign).
func (s *EnrollmentTotalService) Upsert(ctx context.Context, total models.EnrollmentTotal, actor EnrollmentTotalActor) (*models.EnrollmentTotal, error) {
	total.AcademicYear = strings.TrimSpace(total.AcademicYear)
	if strings.TrimSpace(total.Campaign) == "" {
		total.Campaign = s.defaultCampaign
	}
	if err := s.validator.Struct(total); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment total payload")
	}

	program, err := s.catalog.GetByID(ctx, total.ProgramID)
	if err != nil {
		return nil, err
	}
	if !program.IsProgramLike() {
		return nil, appErrors.Clone(appErrors.ErrInvalidProgram, "program_id must reference a program or direction catalog item.")
	}
	total.ProgramName = program.Name

	if err := s.repo.Upsert(ctx, &total); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save enrollment total")
	}

	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			ActorType:   models.AuditActorUser,
			ActorUserID: actor.UserID,
			Action:      models.AuditActionUpdate,
			EntityTable: "program_enrollments",
			EntityID:    total.ID,
			AfterData: map[string]interface{}{
				"program":       program.Name,
				"course_year":   total.CourseYear,
				"student_count": total.StudentCount,
				"academic_year": total.AcademicYear,
			},
			IPAddress: actor.IP,
			UserAgent: actor.UserAgent,
		})
	}
	return &total, nil
}

// List returns totals with their responded counts and coverage.
func (s *EnrollmentTotalService) List(ctx context.Context, filter models.EnrollmentTotalFilter) ([]models.EnrollmentTotal, error) {
	if filter.AcademicYear != "" && !ValidAcademicYear(filter.AcademicYear) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic_year must look like 2025-2026.")
	}
	totals, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollment totals")
	}
	for i := range totals {
		totals[i].CoveragePercent = CoveragePercent(totals[i].RespondedCount, totals[i].StudentCount)
	}
	if totals == nil {
		totals = []models.EnrollmentTotal{}
	}
	return totals, nil
}
