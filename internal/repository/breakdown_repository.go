package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

type breakdownSource struct {
	table  string
	column string
}

var breakdownSources = map[models.BreakdownDimension]breakdownSource{
	models.BreakdownDirection: {table: "admissions_2026_applications", column: "direction_id"},
	models.BreakdownTrack:     {table: "admissions_2026_applications", column: "track_id"},
	models.BreakdownSubject:   {table: "polito_academy_requests", column: "subject_id"},
}

// BreakdownRepository counts intake submissions grouped by a catalog reference.
type BreakdownRepository struct {
	db *sqlx.DB
}

// NewBreakdownRepository constructs a BreakdownRepository.
func NewBreakdownRepository(db *sqlx.DB) *BreakdownRepository {
	return &BreakdownRepository{db: db}
}

// Count groups submissions inside [from, to] by the dimension, largest groups first.
func (r *BreakdownRepository) Count(ctx context.Context, dim models.BreakdownDimension, from, to time.Time) ([]models.BreakdownCount, error) {
	src, ok := breakdownSources[dim]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown dimension %q", dim)
	}
	query := fmt.Sprintf(`SELECT a.%[2]s AS id, c.name AS label, COUNT(a.id) AS count
FROM %[1]s a
LEFT JOIN catalog_items c ON c.id = a.%[2]s
WHERE a.submitted_at >= $1 AND a.submitted_at <= $2
GROUP BY a.%[2]s, c.name
ORDER BY count DESC`, src.table, src.column)

	var counts []models.BreakdownCount
	if err := r.db.SelectContext(ctx, &counts, query, from, to); err != nil {
		return nil, fmt.Errorf("count %s breakdown: %w", dim, err)
	}
	return counts, nil
}
