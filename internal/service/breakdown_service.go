package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type breakdownCounter interface {
	Count(ctx context.Context, dim models.BreakdownDimension, from, to time.Time) ([]models.BreakdownCount, error)
}

// BreakdownService groups admissions and academy requests by catalog reference.
type BreakdownService struct {
	repo    breakdownCounter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBreakdownService constructs a BreakdownService.
func NewBreakdownService(repo breakdownCounter, metrics *MetricsService, logger *zap.Logger) *BreakdownService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreakdownService{repo: repo, metrics: metrics, logger: logger}
}

// Breakdown returns grouped counts inside rng ordered by count. Track and subject
// groups without a reference are dropped; direction is mandatory on applications.
func (s *BreakdownService) Breakdown(ctx context.Context, dim models.BreakdownDimension, rng models.TimeRange) ([]models.BreakdownRow, error) {
	start := time.Now()
	counts, err := s.repo.Count(ctx, dim, rng.From, rng.To)
	s.metrics.ObserveDBQuery("breakdown_"+string(dim), time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load breakdown")
	}

	rows := make([]models.BreakdownRow, 0, len(counts))
	for _, count := range counts {
		if count.ID == nil && dim != models.BreakdownDirection {
			continue
		}
		row := models.BreakdownRow{Value: count.Count}
		if count.Label != nil {
			row.Label = *count.Label
		}
		switch dim {
		case models.BreakdownDirection:
			row.DirectionID = count.ID
		case models.BreakdownTrack:
			row.TrackID = count.ID
		case models.BreakdownSubject:
			row.SubjectID = count.ID
		}
		rows = append(rows, row)
	}
	return rows, nil
}
