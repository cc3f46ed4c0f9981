package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type fakeIntake struct {
	admission models.AdmissionSubmission
	academy   models.AcademySubmission
	err       error
}

func (f *fakeIntake) SubmitAdmission(_ context.Context, sub models.AdmissionSubmission) (*models.IntakeResult, error) {
	f.admission = sub
	if f.err != nil {
		return nil, f.err
	}
	return &models.IntakeResult{ID: "adm-1", ApplicantID: "app-1", DirectionID: &sub.DirectionID, Status: models.ApplicationSubmitted, Answers: sub.Answers}, nil
}

func (f *fakeIntake) SubmitAcademy(_ context.Context, sub models.AcademySubmission) (*models.IntakeResult, error) {
	f.academy = sub
	if f.err != nil {
		return nil, f.err
	}
	return &models.IntakeResult{ID: "pa-1", ApplicantID: "app-1", Status: models.ApplicationNew, Answers: models.JSONMap{}}, nil
}

func TestIntakeHandlerSubmitAdmission(t *testing.T) {
	intake := &fakeIntake{}
	h := NewIntakeHandler(intake)

	body := `{"telegram_user_id":42,"first_name":"Aziza","region_code":"TAS","direction_id":"d-1","track_id":"t-1","answers":{"q":"a"}}`
	c, rec := newTestContext(http.MethodPost, "/bot1/admissions-2026/submit", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.SubmitAdmission(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, intake.admission.TelegramUserID)
	assert.Equal(t, int64(42), *intake.admission.TelegramUserID)
	assert.Equal(t, "TAS", intake.admission.RegionCode)
	assert.Equal(t, "t-1", intake.admission.TrackID)
	envelope := decodeEnvelope(t, rec)
	assert.Contains(t, string(envelope.Data), `"id":"adm-1"`)
	assert.Contains(t, string(envelope.Data), `"direction":"d-1"`)
}

func TestIntakeHandlerSubmitAcademy(t *testing.T) {
	intake := &fakeIntake{}
	h := NewIntakeHandler(intake)

	c, rec := newTestContext(http.MethodPost, "/bot1/polito-academy/submit", strings.NewReader(`{"telegram_user_id":43,"subject_id":"s-1","status":"new"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.SubmitAcademy(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "s-1", intake.academy.SubjectID)
	assert.Equal(t, models.ApplicationNew, intake.academy.Status)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"submitted_at":null`)
}

func TestIntakeHandlerErrors(t *testing.T) {
	h := NewIntakeHandler(&fakeIntake{err: appErrors.Clone(appErrors.ErrInvalidCatalogType, "subject_id must reference a catalog item of type=subject.")})

	c, rec := newTestContext(http.MethodPost, "/bot1/polito-academy/submit", strings.NewReader(`{"telegram_user_id":43,"subject_id":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.SubmitAcademy(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CATALOG_TYPE", decodeEnvelope(t, rec).Error.Code)

	c, rec = newTestContext(http.MethodPost, "/bot1/admissions-2026/submit", strings.NewReader(`{"telegram_user_id":"abc"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.SubmitAdmission(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}
