package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type catalogStore interface {
	FindByTypeAndCode(ctx context.Context, itemType models.CatalogItemType, code string) (*models.CatalogItem, error)
	FindByID(ctx context.Context, id string) (*models.CatalogItem, error)
	List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogItem, error)
}

// CatalogService resolves reference data with an optional Redis read-through cache.
type CatalogService struct {
	repo   catalogStore
	cache  *CacheService
	logger *zap.Logger
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(repo catalogStore, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// Get returns the item of the given type and code, or nil when absent.
func (s *CatalogService) Get(ctx context.Context, itemType models.CatalogItemType, code string) (*models.CatalogItem, error) {
	code = strings.TrimSpace(code)
	if code == "" || !itemType.Valid() {
		return nil, nil
	}
	key := fmt.Sprintf("catalog:%s:%s", itemType, code)
	item, err := Remember(ctx, s.cache, key, func(ctx context.Context) (*models.CatalogItem, error) {
		return s.repo.FindByTypeAndCode(ctx, itemType, code)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog item")
	}
	return item, nil
}

// GetByID returns the item with id, or nil when absent.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	item, err := Remember(ctx, s.cache, "catalog:id:"+id, func(ctx context.Context) (*models.CatalogItem, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog item")
	}
	return item, nil
}

// FlushCache drops every cached catalog lookup. Run it after editing catalog rows directly in the database.
func (s *CatalogService) FlushCache(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, "catalog:*"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to flush catalog cache")
	}
	return nil
}

// ResolveProgram finds a program-like item by id or, failing that, by program code.
func (s *CatalogService) ResolveProgram(ctx context.Context, programID, programCode string) (*models.CatalogItem, error) {
	if programID != "" {
		item, err := s.GetByID(ctx, programID)
		if err != nil || item.IsProgramLike() {
			return item, err
		}
		return nil, nil
	}
	if programCode != "" {
		return s.Get(ctx, models.CatalogProgram, programCode)
	}
	return nil, nil
}

// List returns catalog items. Listings are not cached.
func (s *CatalogService) List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogItem, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown catalog type")
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog items")
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	return items, nil
}

// Programs lists active programs, optionally narrowed by level and track metadata.
func (s *CatalogService) Programs(ctx context.Context, level, track string) ([]models.CatalogItem, error) {
	active := true
	return s.List(ctx, models.CatalogFilter{
		Type:   models.CatalogProgram,
		Active: &active,
		Level:  strings.TrimSpace(level),
		Track:  strings.TrimSpace(track),
	})
}
