package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

// IntakeServiceName is the service token name allowed to submit intake forms.
const IntakeServiceName = "bot1"

type intakeStore interface {
	Submit(ctx context.Context, write models.IntakeWrite) (*models.IntakeResult, error)
}

type intakeCatalog interface {
	Get(ctx context.Context, itemType models.CatalogItemType, code string) (*models.CatalogItem, error)
	GetByID(ctx context.Context, id string) (*models.CatalogItem, error)
}

// IntakeService stores admissions and academy applications from the intake bot.
// Every submission creates a new application; the applicant is upserted by telegram id.
type IntakeService struct {
	repo      intakeStore
	catalog   intakeCatalog
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(repo intakeStore, catalog intakeCatalog, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *IntakeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		repo:      repo,
		catalog:   catalog,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitAdmission stores an admissions 2026 application. direction_id is required;
// track_id is optional and both must point at catalog items of the matching type.
func (s *IntakeService) SubmitAdmission(ctx context.Context, sub models.AdmissionSubmission) (*models.IntakeResult, error) {
	applicant, err := s.resolveApplicant(ctx, sub.ApplicantPayload)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sub.DirectionID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction_id is required.")
	}
	direction, err := s.catalogRef(ctx, sub.DirectionID, models.CatalogDirection, "direction_id")
	if err != nil {
		return nil, err
	}
	track, err := s.catalogRef(ctx, sub.TrackID, models.CatalogTrack, "track_id")
	if err != nil {
		return nil, err
	}
	write, err := s.newWrite(models.IntakeAdmissions2026, applicant, sub.Status, sub.Answers)
	if err != nil {
		return nil, err
	}
	write.DirectionID = direction
	write.TrackID = track
	return s.store(ctx, write, "admissions_2026_applications")
}

// SubmitAcademy stores a Polito Academy request. subject_id is optional.
func (s *IntakeService) SubmitAcademy(ctx context.Context, sub models.AcademySubmission) (*models.IntakeResult, error) {
	applicant, err := s.resolveApplicant(ctx, sub.ApplicantPayload)
	if err != nil {
		return nil, err
	}
	subject, err := s.catalogRef(ctx, sub.SubjectID, models.CatalogSubject, "subject_id")
	if err != nil {
		return nil, err
	}
	write, err := s.newWrite(models.IntakePolitoAcademy, applicant, sub.Status, sub.Answers)
	if err != nil {
		return nil, err
	}
	write.SubjectID = subject
	return s.store(ctx, write, "polito_academy_requests")
}

func (s *IntakeService) resolveApplicant(ctx context.Context, payload models.ApplicantPayload) (models.ApplicantWrite, error) {
	if payload.TelegramUserID == nil {
		return models.ApplicantWrite{}, appErrors.Clone(appErrors.ErrValidation, "telegram_user_id is required.")
	}
	if err := s.validator.Struct(payload); err != nil {
		return models.ApplicantWrite{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid applicant payload")
	}
	region, err := s.resolveRegion(ctx, strings.TrimSpace(payload.RegionID), strings.TrimSpace(payload.RegionCode))
	if err != nil {
		return models.ApplicantWrite{}, err
	}
	return models.ApplicantWrite{
		TelegramUserID: *payload.TelegramUserID,
		TelegramChatID: payload.TelegramChatID,
		Username:       strings.TrimSpace(payload.Username),
		FirstName:      strings.TrimSpace(payload.FirstName),
		LastName:       strings.TrimSpace(payload.LastName),
		Phone:          strings.TrimSpace(payload.Phone),
		Email:          strings.TrimSpace(payload.Email),
		RegionID:       region,
	}, nil
}

// resolveRegion tries region_id as an id first. Bots often send a region code in
// region_id, so a miss falls back to a code lookup with region_code or region_id.
func (s *IntakeService) resolveRegion(ctx context.Context, id, code string) (*string, error) {
	if id != "" {
		if _, err := uuid.Parse(id); err == nil {
			item, err := s.catalog.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if item != nil && item.Type == models.CatalogRegion {
				return &item.ID, nil
			}
		}
		if code == "" {
			code = id
		}
	}
	if code == "" {
		return nil, nil
	}
	item, err := s.catalog.Get(ctx, models.CatalogRegion, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRegion, "Region must reference a catalog item with type=region.")
	}
	return &item.ID, nil
}

// catalogRef returns nil for an empty id and rejects ids that do not resolve to
// an item of the expected type.
func (s *IntakeService) catalogRef(ctx context.Context, id string, itemType models.CatalogItemType, field string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	invalid := appErrors.Clone(appErrors.ErrInvalidCatalogType, fmt.Sprintf("%s must reference a catalog item of type=%s.", field, itemType))
	if _, err := uuid.Parse(id); err != nil {
		return nil, invalid
	}
	item, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Type != itemType {
		return nil, invalid
	}
	return &item.ID, nil
}

func (s *IntakeService) newWrite(kind models.IntakeKind, applicant models.ApplicantWrite, status models.ApplicationStatus, answers models.JSONMap) (models.IntakeWrite, error) {
	if status == "" {
		status = models.ApplicationSubmitted
	}
	if !status.Valid() {
		return models.IntakeWrite{}, appErrors.Clone(appErrors.ErrValidation, "status must be one of new, submitted, in_progress, approved, rejected.")
	}
	if answers == nil {
		answers = models.JSONMap{}
	}
	write := models.IntakeWrite{Kind: kind, Applicant: applicant, Status: status, Answers: answers}
	// Drafts stay unsubmitted so they never reach the intake breakdowns.
	if status != models.ApplicationNew {
		now := s.now().UTC()
		write.SubmittedAt = &now
	}
	return write, nil
}

func (s *IntakeService) store(ctx context.Context, write models.IntakeWrite, table string) (*models.IntakeResult, error) {
	start := time.Now()
	result, err := s.repo.Submit(ctx, write)
	s.metrics.ObserveDBQuery("intake_"+string(write.Kind), time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store application")
	}

	s.metrics.RecordIntakeApplication(write.Kind, write.Status)
	s.logger.Info("intake application stored",
		zap.String("form", string(write.Kind)),
		zap.String("application_id", result.ID),
		zap.String("status", string(write.Status)),
	)
	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			ActorType:    models.AuditActorService,
			ActorService: IntakeServiceName,
			Action:       models.AuditActionUpdate,
			EntityTable:  table,
			EntityID:     result.ID,
			AfterData: map[string]interface{}{
				"applicant": result.ApplicantID,
				"status":    string(result.Status),
				"answers":   map[string]interface{}(write.Answers),
			},
		})
	}
	return result, nil
}
