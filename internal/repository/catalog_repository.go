package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

const catalogColumns = `id, type, code, name, name_uz, name_ru, name_en, parent_id, is_active, sort_order, metadata, created_at, updated_at`

// CatalogRepository reads typed reference data.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindByTypeAndCode returns nil when no item matches.
func (r *CatalogRepository) FindByTypeAndCode(ctx context.Context, itemType models.CatalogItemType, code string) (*models.CatalogItem, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_items WHERE type = $1 AND code = $2", catalogColumns)
	var item models.CatalogItem
	if err := r.db.GetContext(ctx, &item, query, itemType, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item by code: %w", err)
	}
	return &item, nil
}

// FindByID returns nil when no item matches.
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_items WHERE id = $1", catalogColumns)
	var item models.CatalogItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &item, nil
}

// List returns catalog items ordered by type, sort order and name.
func (r *CatalogRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogItem, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(code, '')) LIKE $%d OR LOWER(name_uz) LIKE $%d OR LOWER(name_ru) LIKE $%d OR LOWER(name_en) LIKE $%d)", idx, idx, idx, idx, idx))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		conditions = append(conditions, fmt.Sprintf("metadata->>'level' = $%d", len(args)))
	}
	if filter.Track != "" {
		args = append(args, filter.Track)
		conditions = append(conditions, fmt.Sprintf("metadata->>'track' = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(catalogColumns)
	sb.WriteString(" FROM catalog_items")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY type, sort_order, name")

	var items []models.CatalogItem
	if err := r.db.SelectContext(ctx, &items, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	return items, nil
}
