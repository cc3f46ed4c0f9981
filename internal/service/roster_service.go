package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

// RawRosterRow is one undecoded import row from JSON or CSV.
type RawRosterRow map[string]interface{}

type rosterStore interface {
	Upsert(ctx context.Context, row models.RosterRow) (bool, error)
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error)
}

type programResolver interface {
	ResolveProgram(ctx context.Context, programID, programCode string) (*models.CatalogItem, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// RosterImportActor identifies who triggered an import.
type RosterImportActor struct {
	UserID    string
	IP        string
	UserAgent string
}

// RosterService parses, validates and upserts roster rows.
type RosterService struct {
	repo      rosterStore
	catalog   programResolver
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	defaultCampaign string
}

// NewRosterService constructs a RosterService.
func NewRosterService(repo rosterStore, catalog programResolver, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaultCampaign string) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCampaign == "" {
		defaultCampaign = models.DefaultCampaign
	}
	return &RosterService{
		repo:            repo,
		catalog:         catalog,
		audit:           audit,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
		defaultCampaign: defaultCampaign,
	}
}

// ParseRow resolves the program and normalises one raw row.
func (s *RosterService) ParseRow(ctx context.Context, raw RawRosterRow) (models.RosterRow, error) {
	program, err := s.catalog.ResolveProgram(ctx, rawString(raw, "program_id"), rawString(raw, "program_code"))
	if err != nil {
		return models.RosterRow{}, err
	}
	if program == nil {
		return models.RosterRow{}, appErrors.Clone(appErrors.ErrProgramNotFound, "Program not found.")
	}

	courseYear, ok := rawInt(raw, "course_year")
	if !ok {
		return models.RosterRow{}, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be an integer.")
	}
	if courseYear < 1 || courseYear > models.GraduateCourseYear {
		return models.RosterRow{}, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be between 1 and 5.")
	}

	campaign := rawString(raw, "campaign")
	if campaign == "" {
		campaign = s.defaultCampaign
	}

	row := models.RosterRow{
		StudentExternalID: rawString(raw, "student_external_id"),
		ProgramID:         program.ID,
		CourseYear:        courseYear,
		IsActive:          rawActive(raw),
		Campaign:          campaign,
	}
	if err := s.validator.Struct(row); err != nil {
		return models.RosterRow{}, appErrors.Clone(appErrors.ErrValidation, "student_external_id is required.")
	}
	return row, nil
}

// Upsert writes one parsed row and reports whether it was created.
func (s *RosterService) Upsert(ctx context.Context, row models.RosterRow) (bool, error) {
	start := time.Now()
	created, err := s.repo.Upsert(ctx, row)
	s.metrics.ObserveDBQuery("roster_upsert", time.Since(start))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert roster row")
	}
	return created, nil
}

// Import upserts every row independently and collects per-row failures.
func (s *RosterService) Import(ctx context.Context, rows []RawRosterRow, actor RosterImportActor) *models.RosterImportResult {
	result := &models.RosterImportResult{Errors: []models.RosterImportError{}}
	for i, raw := range rows {
		row, err := s.ParseRow(ctx, raw)
		if err == nil {
			var created bool
			created, err = s.Upsert(ctx, row)
			if err == nil {
				if created {
					result.Created++
				} else {
					result.Updated++
				}
				continue
			}
		}
		appErr := appErrors.FromError(err)
		if appErr.Status >= 500 {
			s.logger.Error("roster import row failed", zap.Int("row", i+1), zap.Error(err))
		}
		result.Errors = append(result.Errors, models.RosterImportError{Row: i + 1, Error: appErr.Message})
	}

	s.metrics.RecordRosterImport(result.Created, result.Updated, len(result.Errors))
	s.logger.Info("roster import finished",
		zap.Int("rows", len(rows)),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			ActorType:   models.AuditActorUser,
			ActorUserID: actor.UserID,
			Action:      models.AuditActionUpdate,
			EntityTable: "student_roster",
			AfterData:   map[string]interface{}{"created": result.Created, "updated": result.Updated, "errors": len(result.Errors)},
			Meta:        map[string]interface{}{"type": "roster_import"},
			IPAddress:   actor.IP,
			UserAgent:   actor.UserAgent,
		})
	}
	return result
}

// List returns a page of roster entries.
func (s *RosterService) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	if entries == nil {
		entries = []models.RosterEntry{}
	}
	return entries, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ParseRosterCSV reads a header row followed by data rows into raw rows.
func ParseRosterCSV(r io.Reader) ([]RawRosterRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []RawRosterRow{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, appErrors.ErrInvalidPayload.Status, "invalid CSV header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []RawRosterRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, appErrors.ErrInvalidPayload.Status, fmt.Sprintf("invalid CSV row %d", len(rows)+1))
		}
		row := make(RawRosterRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rawString(raw RawRosterRow, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func rawInt(raw RawRosterRow, key string) (int, bool) {
	switch v := raw[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// rawActive is true unless the value is explicitly false or zero.
func rawActive(raw RawRosterRow) bool {
	switch v := raw["is_active"].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.TrimSpace(v) {
		case "false", "False", "0":
			return false
		}
	}
	return true
}
