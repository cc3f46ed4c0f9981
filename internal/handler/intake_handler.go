package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

type intakeUseCase interface {
	SubmitAdmission(ctx context.Context, sub models.AdmissionSubmission) (*models.IntakeResult, error)
	SubmitAcademy(ctx context.Context, sub models.AcademySubmission) (*models.IntakeResult, error)
}

// IntakeHandler accepts admissions and academy forms from the intake bot.
type IntakeHandler struct {
	intake intakeUseCase
}

// NewIntakeHandler constructs an IntakeHandler.
func NewIntakeHandler(intake intakeUseCase) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// SubmitAdmission godoc
// @Summary Submit an admissions 2026 application
// @Tags Intake
// @Accept json
// @Produce json
// @Param X-SERVICE-TOKEN header string true "bot1 service token"
// @Param payload body models.AdmissionSubmission true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bot1/admissions-2026/submit [post]
func (h *IntakeHandler) SubmitAdmission(c *gin.Context) {
	var sub models.AdmissionSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	result, err := h.intake.SubmitAdmission(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitAcademy godoc
// @Summary Submit a Polito Academy request
// @Tags Intake
// @Accept json
// @Produce json
// @Param X-SERVICE-TOKEN header string true "bot1 service token"
// @Param payload body models.AcademySubmission true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bot1/polito-academy/submit [post]
func (h *IntakeHandler) SubmitAcademy(c *gin.Context) {
	var sub models.AcademySubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	result, err := h.intake.SubmitAcademy(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
