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

type fakeBreakdownCounter struct {
	counts []models.BreakdownCount
	err    error
	dim    models.BreakdownDimension
}

func (f *fakeBreakdownCounter) Count(_ context.Context, dim models.BreakdownDimension, _, _ time.Time) ([]models.BreakdownCount, error) {
	f.dim = dim
	return f.counts, f.err
}

func strPtr(v string) *string { return &v }

func TestBreakdownDropsUnreferencedTracks(t *testing.T) {
	repo := &fakeBreakdownCounter{counts: []models.BreakdownCount{
		{ID: strPtr("t1"), Label: strPtr("Engineering"), Count: 7},
		{ID: nil, Label: nil, Count: 3},
	}}
	svc := NewBreakdownService(repo, nil, nil)

	rows, err := svc.Breakdown(context.Background(), models.BreakdownTrack, models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.BreakdownRow{Label: "Engineering", Value: 7, TrackID: strPtr("t1")}, rows[0])
	assert.Equal(t, models.BreakdownTrack, repo.dim)
}

func TestBreakdownKeepsDirectionRows(t *testing.T) {
	repo := &fakeBreakdownCounter{counts: []models.BreakdownCount{
		{ID: strPtr("d1"), Label: strPtr("IT"), Count: 2},
		{ID: nil, Label: nil, Count: 1},
	}}
	svc := NewBreakdownService(repo, nil, nil)

	rows, err := svc.Breakdown(context.Background(), models.BreakdownDirection, models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "d1", *rows[0].DirectionID)
	assert.Nil(t, rows[0].SubjectID)
}

func TestBreakdownWrapsErrors(t *testing.T) {
	svc := NewBreakdownService(&fakeBreakdownCounter{err: errors.New("boom")}, nil, nil)
	_, err := svc.Breakdown(context.Background(), models.BreakdownSubject, models.TimeRange{})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
