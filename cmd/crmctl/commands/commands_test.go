package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
)

type fakeImporter struct {
	rows  []service.RawRosterRow
	actor service.RosterImportActor
	fail  bool
}

func (f *fakeImporter) Import(_ context.Context, rows []service.RawRosterRow, actor service.RosterImportActor) *models.RosterImportResult {
	f.rows = rows
	f.actor = actor
	result := &models.RosterImportResult{Created: len(rows), Errors: []models.RosterImportError{}}
	if f.fail {
		result.Created--
		result.Errors = append(result.Errors, models.RosterImportError{Row: 2, Error: "Program not found."})
	}
	return result
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("student_external_id,program_code,course_year\nS-1,CS,1\nS-2,XX,2\n"), 0o600))
	return path
}

func TestRunImportRoster(t *testing.T) {
	importer := &fakeImporter{}
	out := &bytes.Buffer{}

	require.NoError(t, runImportRoster(context.Background(), importer, writeCSV(t), out))
	assert.Len(t, importer.rows, 2)
	assert.Equal(t, actorName, importer.actor.UserAgent)
	assert.Equal(t, "created=2 updated=0 errors=0\n", out.String())
}

func TestRunImportRosterReportsRowErrors(t *testing.T) {
	out := &bytes.Buffer{}
	err := runImportRoster(context.Background(), &fakeImporter{fail: true}, writeCSV(t), out)

	require.Error(t, err)
	assert.Contains(t, out.String(), "row 2: Program not found.")
}

func TestRunImportRosterMissingFile(t *testing.T) {
	err := runImportRoster(context.Background(), &fakeImporter{}, filepath.Join(t.TempDir(), "nope.csv"), &bytes.Buffer{})
	assert.Error(t, err)
}

type fakeCreator struct {
	req service.CreateUserRequest
	err error
}

func (f *fakeCreator) CreateUser(_ context.Context, req service.CreateUserRequest) (*models.User, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u-1", Email: req.Email, Role: req.Role}, nil
}

func TestRunCreateUser(t *testing.T) {
	creator := &fakeCreator{}
	out := &bytes.Buffer{}

	err := runCreateUser(context.Background(), creator, service.CreateUserRequest{Email: "a@example.com", Role: models.RoleAdmin}, out)
	require.NoError(t, err)
	assert.Equal(t, "user a@example.com (admin) saved with id u-1\n", out.String())

	err = runCreateUser(context.Background(), &fakeCreator{err: errors.New("boom")}, service.CreateUserRequest{}, out)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["import-roster"])
	assert.True(t, names["create-user"])
	assert.True(t, names["flush-catalog-cache"])
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubFlusher struct{ flushed bool }

func (s *stubFlusher) FlushCache(context.Context) error {
	s.flushed = true
	return nil
}

func TestRunFlushCache(t *testing.T) {
	flusher := &stubFlusher{}
	out := &bytes.Buffer{}
	require.NoError(t, runFlushCache(context.Background(), stubPinger{}, flusher, out))
	assert.True(t, flusher.flushed)
	assert.Equal(t, "catalog cache flushed\n", out.String())

	flusher = &stubFlusher{}
	err := runFlushCache(context.Background(), stubPinger{err: errors.New("down")}, flusher, out)
	assert.Error(t, err)
	assert.False(t, flusher.flushed)
}
