package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

// maxRosterUpload bounds CSV uploads and JSON bodies.
const maxRosterUpload = 20 << 20

type rosterImporter interface {
	Import(ctx context.Context, rows []service.RawRosterRow, actor service.RosterImportActor) *models.RosterImportResult
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, *models.Pagination, error)
}

// RosterHandler serves roster import and listing.
type RosterHandler struct {
	roster rosterImporter
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(roster rosterImporter) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// Import godoc
// @Summary Import roster rows
// @Description Accepts a JSON list, an object with a rows list, or a multipart CSV file field named file. Responds 207 when some rows failed.
// @Tags Roster
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Roster CSV"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/roster/import [post]
func (h *RosterHandler) Import(c *gin.Context) {
	rows, err := readRosterRows(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := service.RosterImportActor{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
	}

	result := h.roster.Import(c.Request.Context(), rows, actor)
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	response.JSON(c, status, result, nil)
}

func readRosterRows(c *gin.Context) ([]service.RawRosterRow, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterUpload)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidPayload, "Provide a CSV file or a JSON list.")
		}
		file, err := header.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, appErrors.ErrInvalidPayload.Status, "Unable to read uploaded file.")
		}
		defer file.Close()
		return service.ParseRosterCSV(file)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, appErrors.ErrInvalidPayload.Status, "Unable to read request body.")
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidPayload, "Provide a CSV file or a JSON list.")
	}

	var rows []service.RawRosterRow
	switch body[0] {
	case '[':
		err = json.Unmarshal(body, &rows)
	case '{':
		var wrapped struct {
			Rows []service.RawRosterRow `json:"rows"`
		}
		err = json.Unmarshal(body, &wrapped)
		if err == nil && wrapped.Rows == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidPayload, "Provide a CSV file or a JSON list.")
		}
		rows = wrapped.Rows
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidPayload, "Provide a CSV file or a JSON list.")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, appErrors.ErrInvalidPayload.Status, "Malformed JSON payload.")
	}
	return rows, nil
}

// List godoc
// @Summary List roster entries
// @Tags Roster
// @Produce json
// @Param campaign query string false "Roster campaign"
// @Param program_id query string false "Program id"
// @Param course_year query int false "Course year"
// @Param is_active query bool false "Active flag"
// @Param search query string false "External id prefix"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bot2/roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	courseYear, err := optionalCourseYear(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	entries, pagination, err := h.roster.List(c.Request.Context(), models.RosterFilter{
		Campaign:   c.Query("campaign"),
		ProgramID:  c.Query("program_id"),
		CourseYear: courseYear,
		Active:     optionalBool(c, "is_active"),
		Search:     c.Query("search"),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}
