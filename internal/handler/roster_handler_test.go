package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
)

type fakeRosterImporter struct {
	rows   []service.RawRosterRow
	actor  service.RosterImportActor
	result *models.RosterImportResult
	filter models.RosterFilter
}

func (f *fakeRosterImporter) Import(_ context.Context, rows []service.RawRosterRow, actor service.RosterImportActor) *models.RosterImportResult {
	f.rows = rows
	f.actor = actor
	if f.result != nil {
		return f.result
	}
	return &models.RosterImportResult{Created: len(rows), Errors: []models.RosterImportError{}}
}

func (f *fakeRosterImporter) List(_ context.Context, filter models.RosterFilter) ([]models.RosterEntry, *models.Pagination, error) {
	f.filter = filter
	return []models.RosterEntry{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func TestRosterHandlerImportJSONList(t *testing.T) {
	importer := &fakeRosterImporter{}
	h := NewRosterHandler(importer)

	c, rec := newTestContext(http.MethodPost, "/admin/roster/import", strings.NewReader(`[{"student_external_id":"S-1","program_code":"CS","course_year":2}]`))
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c, "admin-1", models.RoleAdmin)
	h.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, importer.rows, 1)
	assert.Equal(t, float64(2), importer.rows[0]["course_year"])
	assert.Equal(t, "admin-1", importer.actor.UserID)
}

func TestRosterHandlerImportWrappedRows(t *testing.T) {
	importer := &fakeRosterImporter{result: &models.RosterImportResult{
		Created: 1,
		Errors:  []models.RosterImportError{{Row: 2, Error: "Program not found."}},
	}}
	h := NewRosterHandler(importer)

	c, rec := newTestContext(http.MethodPost, "/admin/roster/import", strings.NewReader(`{"rows":[{"student_external_id":"S-1"},{"student_external_id":"S-2"}]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Import(c)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.Len(t, importer.rows, 2)
	assert.JSONEq(t, `{"created":1,"updated":0,"errors":[{"row":2,"error":"Program not found."}]}`, string(decodeEnvelope(t, rec).Data))
}

func TestRosterHandlerImportCSV(t *testing.T) {
	importer := &fakeRosterImporter{}
	h := NewRosterHandler(importer)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("student_external_id,program_code,course_year,is_active\nS-1,CS,1,true\nS-2,CS,5,0\n"))
	require.NoError(t, writer.Close())

	c, rec := newTestContext(http.MethodPost, "/admin/roster/import", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	h.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, importer.rows, 2)
	assert.Equal(t, "S-2", importer.rows[1]["student_external_id"])
	assert.Equal(t, "0", importer.rows[1]["is_active"])
}

func TestRosterHandlerImportRejectsOtherPayloads(t *testing.T) {
	h := NewRosterHandler(&fakeRosterImporter{})

	for _, body := range []string{"", `"rows"`, `{"data":[]}`, `[{"broken"`} {
		c, rec := newTestContext(http.MethodPost, "/admin/roster/import", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Import(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "INVALID_PAYLOAD", decodeEnvelope(t, rec).Error.Code, body)
	}
}

func TestRosterHandlerList(t *testing.T) {
	importer := &fakeRosterImporter{}
	h := NewRosterHandler(importer)

	c, rec := newTestContext(http.MethodGet, "/bot2/roster?campaign=spring&course_year=3&is_active=false&page=2&page_size=10", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "spring", importer.filter.Campaign)
	assert.Equal(t, 3, *importer.filter.CourseYear)
	assert.False(t, *importer.filter.Active)
	assert.Equal(t, 2, decodeEnvelope(t, rec).Pagination.Page)

	c, rec = newTestContext(http.MethodGet, "/bot2/roster?course_year=x", nil)
	h.List(c)
	assert.Equal(t, "INVALID_COURSE_YEAR", decodeEnvelope(t, rec).Error.Code)
}
