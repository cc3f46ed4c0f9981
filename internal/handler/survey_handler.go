package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

type surveyUseCase interface {
	Submit(ctx context.Context, sub models.SurveySubmission) (*models.SurveySubmitResult, error)
	List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, *models.Pagination, error)
}

// SurveyHandler accepts bot submissions and lists stored responses.
type SurveyHandler struct {
	surveys surveyUseCase
}

// NewSurveyHandler constructs a SurveyHandler.
func NewSurveyHandler(surveys surveyUseCase) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// Submit godoc
// @Summary Submit a graduate survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param X-SERVICE-TOKEN header string true "bot2 service token"
// @Param payload body models.SurveySubmission true "Survey payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bot2/surveys/submit [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var sub models.SurveySubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid survey payload"))
		return
	}
	result, err := h.surveys.Submit(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List survey responses
// @Tags Surveys
// @Produce json
// @Param from query string false "Submitted after (ISO-8601)"
// @Param to query string false "Submitted before (ISO-8601)"
// @Param campaign query string false "Survey campaign"
// @Param program_id query string false "Program id"
// @Param course_year query int false "Course year"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bot2/surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	from, err := optionalTime(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := optionalTime(c, "to")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseYear, err := optionalCourseYear(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	responses, pagination, err := h.surveys.List(c.Request.Context(), models.SurveyFilter{
		From:       from,
		To:         to,
		Campaign:   c.Query("campaign"),
		ProgramID:  c.Query("program_id"),
		CourseYear: courseYear,
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responses, pagination)
}

func optionalTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	ts, ok := service.ParseISOTime(raw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "from/to must be ISO datetime.")
	}
	return &ts, nil
}
