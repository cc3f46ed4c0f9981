package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

// SurveyServiceName is the service token name allowed to submit surveys.
const SurveyServiceName = "bot2"

type surveyStore interface {
	Submit(ctx context.Context, write models.SurveyWrite) (*models.SurveySubmitResult, error)
	List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, int, error)
}

type rosterFinder interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.RosterEntry, error)
}

type catalogLookup interface {
	GetByID(ctx context.Context, id string) (*models.CatalogItem, error)
}

// SurveyService accepts bot submissions and lists stored responses.
type SurveyService struct {
	repo      surveyStore
	roster    rosterFinder
	catalog   catalogLookup
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	defaultCampaign string
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(repo surveyStore, roster rosterFinder, catalog catalogLookup, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaultCampaign string) *SurveyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCampaign == "" {
		defaultCampaign = models.DefaultCampaign
	}
	return &SurveyService{
		repo:      repo,
		roster:    roster,
		catalog:   catalog,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,

		defaultCampaign: defaultCampaign,
	}
}

// Submit validates a submission against the roster and catalog, then stores it.
// The roster stays the source of truth for program and course year when it exists.
func (s *SurveyService) Submit(ctx context.Context, sub models.SurveySubmission) (*models.SurveySubmitResult, error) {
	sub.StudentExternalID = strings.TrimSpace(sub.StudentExternalID)
	if sub.StudentExternalID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_external_id is required.")
	}
	if err := s.validator.Struct(sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid survey payload")
	}

	courseYear := 1
	if sub.CourseYear != nil && *sub.CourseYear != 0 {
		courseYear = *sub.CourseYear
	}
	if courseYear < 1 || courseYear > 4 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be between 1 and 4.")
	}

	write := models.SurveyWrite{Submission: sub, CourseYear: courseYear}

	roster, err := s.roster.FindByExternalID(ctx, sub.StudentExternalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	if roster != nil {
		write.RosterID = roster.ID
		write.ProgramID = roster.ProgramID
		write.CourseYear = roster.CourseYear
	} else {
		programID := strings.TrimSpace(sub.ProgramID)
		if programID == "" {
			return nil, appErrors.Clone(appErrors.ErrRosterNotFound, "Student roster not found and program_id not provided.")
		}
		program, err := s.catalog.GetByID(ctx, programID)
		if err != nil {
			return nil, err
		}
		if !program.IsProgramLike() {
			return nil, appErrors.Clone(appErrors.ErrInvalidProgram, "program_id must reference a program or direction catalog item.")
		}
		write.ProgramID = program.ID
	}

	write.Campaign = strings.TrimSpace(sub.Campaign)
	if write.Campaign == "" {
		write.Campaign = s.defaultCampaign
	}

	if regionID := strings.TrimSpace(sub.RegionID); regionID != "" {
		region, err := s.catalog.GetByID(ctx, regionID)
		if err != nil {
			return nil, err
		}
		if region == nil || region.Type != models.CatalogRegion {
			return nil, appErrors.Clone(appErrors.ErrInvalidRegion, "region_id must reference a region catalog item.")
		}
		write.RegionID = &region.ID
	}

	write.SubmittedAt = s.now().UTC()
	start := time.Now()
	result, err := s.repo.Submit(ctx, write)
	s.metrics.ObserveDBQuery("survey_submit", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store survey response")
	}

	s.metrics.RecordSurveySubmission(write.Campaign)
	s.logger.Info("survey submitted",
		zap.String("response_id", result.ResponseID),
		zap.String("campaign", write.Campaign),
		zap.Bool("auto_roster", write.RosterID == ""),
	)
	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			ActorType:    models.AuditActorService,
			ActorService: SurveyServiceName,
			Action:       models.AuditActionCreate,
			EntityTable:  "bot2_survey_responses",
			EntityID:     result.ResponseID,
			AfterData:    map[string]interface{}{"student_external_id": sub.StudentExternalID, "survey_campaign": write.Campaign},
		})
	}
	return result, nil
}

// List returns a page of survey responses.
func (s *SurveyService) List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "from must be earlier than to.")
	}
	responses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list survey responses")
	}
	if responses == nil {
		responses = []models.SurveyResponse{}
	}
	return responses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
