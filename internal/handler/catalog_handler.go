package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

type catalogBrowser interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.CatalogItem, error)
	Programs(ctx context.Context, level, track string) ([]models.CatalogItem, error)
}

// CatalogHandler exposes reference data to the dashboard.
type CatalogHandler struct {
	catalog catalogBrowser
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog catalogBrowser) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Items godoc
// @Summary List catalog items
// @Tags Catalog
// @Produce json
// @Param type query string false "program, direction, subject, track, region, other"
// @Param is_active query bool false "Active flag"
// @Param search query string false "Name or code substring"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog/items [get]
func (h *CatalogHandler) Items(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context(), models.CatalogFilter{
		Type:   models.CatalogItemType(strings.ToLower(strings.TrimSpace(c.Query("type")))),
		Active: optionalBool(c, "is_active"),
		Search: strings.TrimSpace(c.Query("search")),
		Level:  c.Query("level"),
		Track:  c.Query("track"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Programs godoc
// @Summary List active programs
// @Tags Catalog
// @Produce json
// @Param level query string false "bachelor or master"
// @Param track query string false "Program track"
// @Success 200 {object} response.Envelope
// @Router /catalog/programs [get]
func (h *CatalogHandler) Programs(c *gin.Context) {
	items, err := h.catalog.Programs(c.Request.Context(), c.Query("level"), c.Query("track"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
