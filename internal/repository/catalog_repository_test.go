package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

var catalogRowColumns = []string{"id", "type", "code", "name", "name_uz", "name_ru", "name_en", "parent_id", "is_active", "sort_order", "metadata", "created_at", "updated_at"}

func TestCatalogFindByTypeAndCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_items WHERE type = $1 AND code = $2")).
		WithArgs("program", "CS").
		WillReturnRows(sqlmock.NewRows(catalogRowColumns).
			AddRow("prog-a", "program", "CS", "Computer Science", "", "", "", nil, true, 1, []byte(`{"level":"bachelor"}`), now, now))

	item, err := repo.FindByTypeAndCode(context.Background(), models.CatalogProgram, "CS")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "bachelor", item.Metadata.String("level"))
	assert.True(t, item.IsProgramLike())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_items WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	item, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestCatalogListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	active := true
	mock.ExpectQuery(regexp.QuoteMeta("WHERE type = $1 AND is_active = $2 AND metadata->>'level' = $3 ORDER BY type, sort_order, name")).
		WithArgs("program", true, "master").
		WillReturnRows(sqlmock.NewRows(catalogRowColumns))

	items, err := repo.List(context.Background(), models.CatalogFilter{Type: models.CatalogProgram, Active: &active, Level: "master"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
