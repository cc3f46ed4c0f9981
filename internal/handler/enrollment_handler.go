package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

type enrollmentTotals interface {
	Upsert(ctx context.Context, total models.EnrollmentTotal, actor service.EnrollmentTotalActor) (*models.EnrollmentTotal, error)
	List(ctx context.Context, filter models.EnrollmentTotalFilter) ([]models.EnrollmentTotal, error)
}

// EnrollmentTotalRequest is the write payload; is_active defaults to true.
type EnrollmentTotalRequest struct {
	ProgramID    string `json:"program_id"`
	CourseYear   int    `json:"course_year"`
	StudentCount int    `json:"student_count"`
	AcademicYear string `json:"academic_year"`
	Campaign     string `json:"campaign"`
	IsActive     *bool  `json:"is_active"`
	Notes        string `json:"notes"`
}

// EnrollmentHandler manages declared enrollment totals.
type EnrollmentHandler struct {
	totals enrollmentTotals
}

// NewEnrollmentHandler constructs an EnrollmentHandler.
func NewEnrollmentHandler(totals enrollmentTotals) *EnrollmentHandler {
	return &EnrollmentHandler{totals: totals}
}

// List godoc
// @Summary List enrollment totals with responded counts
// @Tags Enrollments
// @Produce json
// @Param campaign query string false "Campaign"
// @Param academic_year query string false "Academic year YYYY-YYYY"
// @Param program_id query string false "Program id"
// @Param course_year query int false "Course year"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bot2/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	courseYear, err := optionalCourseYear(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	totals, err := h.totals.List(c.Request.Context(), models.EnrollmentTotalFilter{
		Campaign:     c.Query("campaign"),
		AcademicYear: c.Query("academic_year"),
		ProgramID:    c.Query("program_id"),
		CourseYear:   courseYear,
		Active:       optionalBool(c, "is_active"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, totals, nil)
}

// Upsert godoc
// @Summary Create or replace an enrollment total
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body EnrollmentTotalRequest true "Enrollment total"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bot2/enrollments [post]
func (h *EnrollmentHandler) Upsert(c *gin.Context) {
	var req EnrollmentTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment total payload"))
		return
	}
	total := models.EnrollmentTotal{
		ProgramID:    req.ProgramID,
		CourseYear:   req.CourseYear,
		StudentCount: req.StudentCount,
		AcademicYear: req.AcademicYear,
		Campaign:     req.Campaign,
		IsActive:     req.IsActive == nil || *req.IsActive,
		Notes:        req.Notes,
	}

	actor := service.EnrollmentTotalActor{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
	}

	saved, err := h.totals.Upsert(c.Request.Context(), total, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}
