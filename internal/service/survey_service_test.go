package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type fakeSurveyStore struct {
	writes []models.SurveyWrite
	err    error
}

func (f *fakeSurveyStore) Submit(_ context.Context, write models.SurveyWrite) (*models.SurveySubmitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.writes = append(f.writes, write)
	return &models.SurveySubmitResult{
		OK:         true,
		Roster:     models.SurveyRosterRef{ProgramID: write.ProgramID, CourseYear: write.CourseYear},
		ResponseID: "resp-1",
	}, nil
}

func (f *fakeSurveyStore) List(context.Context, models.SurveyFilter) ([]models.SurveyResponse, int, error) {
	return nil, 0, nil
}

type fakeRosterFinder struct {
	entries map[string]*models.RosterEntry
}

func (f *fakeRosterFinder) FindByExternalID(_ context.Context, externalID string) (*models.RosterEntry, error) {
	return f.entries[externalID], nil
}

func newTestSurveyService(store *fakeSurveyStore, audit *fakeAuditRecorder) *SurveyService {
	roster := &fakeRosterFinder{entries: map[string]*models.RosterEntry{
		"S-1": {ID: "roster-1", StudentExternalID: "S-1", ProgramID: "prog-1", CourseYear: 3},
	}}
	catalog := NewCatalogService(newFakeCatalog(), nil, nil)
	var recorder auditRecorder
	if audit != nil {
		recorder = audit
	}
	svc := NewSurveyService(store, roster, catalog, recorder, nil, nil, nil, "")
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func intPtr(v int) *int { return &v }

func TestSurveySubmitUsesRosterAsSourceOfTruth(t *testing.T) {
	store := &fakeSurveyStore{}
	audit := &fakeAuditRecorder{}
	svc := newTestSurveyService(store, audit)

	result, err := svc.Submit(context.Background(), models.SurveySubmission{
		StudentExternalID: "S-1",
		CourseYear:        intPtr(1),
		ProgramID:         "dir-1",
		RegionID:          "reg-1",
		Phone:             "+998900000000",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, models.SurveyRosterRef{ProgramID: "prog-1", CourseYear: 3}, result.Roster)

	require.Len(t, store.writes, 1)
	write := store.writes[0]
	assert.Equal(t, "roster-1", write.RosterID)
	assert.Equal(t, models.DefaultCampaign, write.Campaign)
	require.NotNil(t, write.RegionID)
	assert.Equal(t, "reg-1", *write.RegionID)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), write.SubmittedAt)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "resp-1", audit.entries[0].EntityID)
	assert.Equal(t, SurveyServiceName, audit.entries[0].ActorService)
}

func TestSurveySubmitUsesConfiguredDefaultCampaign(t *testing.T) {
	store := &fakeSurveyStore{}
	svc := newTestSurveyService(store, nil)
	svc.defaultCampaign = "spring-2026"

	_, err := svc.Submit(context.Background(), models.SurveySubmission{StudentExternalID: "S-1"})
	require.NoError(t, err)
	require.Len(t, store.writes, 1)
	assert.Equal(t, "spring-2026", store.writes[0].Campaign)
}

func TestSurveySubmitAutoCreatesRoster(t *testing.T) {
	store := &fakeSurveyStore{}
	svc := newTestSurveyService(store, &fakeAuditRecorder{})

	_, err := svc.Submit(context.Background(), models.SurveySubmission{
		StudentExternalID: "S-NEW",
		ProgramID:         "dir-1",
		Campaign:          "spring",
	})
	require.NoError(t, err)
	require.Len(t, store.writes, 1)
	assert.Empty(t, store.writes[0].RosterID)
	assert.Equal(t, "dir-1", store.writes[0].ProgramID)
	assert.Equal(t, 1, store.writes[0].CourseYear)
	assert.Equal(t, "spring", store.writes[0].Campaign)
}

func TestSurveySubmitValidationOrder(t *testing.T) {
	svc := newTestSurveyService(&fakeSurveyStore{}, &fakeAuditRecorder{})
	ctx := context.Background()

	cases := []struct {
		name string
		sub  models.SurveySubmission
		want *appErrors.Error
	}{
		{"missing id", models.SurveySubmission{}, appErrors.ErrValidation},
		{"course year too high", models.SurveySubmission{StudentExternalID: "S-1", CourseYear: intPtr(5)}, appErrors.ErrInvalidCourseYear},
		{"negative course year", models.SurveySubmission{StudentExternalID: "S-1", CourseYear: intPtr(-1)}, appErrors.ErrInvalidCourseYear},
		{"no roster no program", models.SurveySubmission{StudentExternalID: "S-NEW"}, appErrors.ErrRosterNotFound},
		{"region as program", models.SurveySubmission{StudentExternalID: "S-NEW", ProgramID: "reg-1"}, appErrors.ErrInvalidProgram},
		{"unknown program", models.SurveySubmission{StudentExternalID: "S-NEW", ProgramID: "missing"}, appErrors.ErrInvalidProgram},
		{"program as region", models.SurveySubmission{StudentExternalID: "S-1", RegionID: "prog-1"}, appErrors.ErrInvalidRegion},
		{"bad gender", models.SurveySubmission{StudentExternalID: "S-1", Gender: "robot"}, appErrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.sub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestSurveySubmitStoreFailure(t *testing.T) {
	audit := &fakeAuditRecorder{}
	svc := newTestSurveyService(&fakeSurveyStore{err: errors.New("serialization failure")}, audit)

	_, err := svc.Submit(context.Background(), models.SurveySubmission{StudentExternalID: "S-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Empty(t, audit.entries)
}

func TestSurveyListRejectsInvertedRange(t *testing.T) {
	svc := newTestSurveyService(&fakeSurveyStore{}, nil)
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	_, _, err := svc.List(context.Background(), models.SurveyFilter{From: &from, To: &to})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTimeRange))

	items, page, err := svc.List(context.Background(), models.SurveyFilter{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, 50, page.PageSize)
}
