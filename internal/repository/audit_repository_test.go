package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs(sqlmock.AnyArg(), models.AuditActorService, nil, "bot2", models.AuditActionCreate, "bot2_survey_responses", sqlmock.AnyArg(), `{"survey_campaign":"default"}`, "{}", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entityID := "resp-1"
	log := &models.AuditLog{
		ActorType:    models.AuditActorService,
		ActorService: "bot2",
		Action:       models.AuditActionCreate,
		EntityTable:  "bot2_survey_responses",
		EntityID:     &entityID,
		AfterData:    models.JSONMap{"survey_campaign": "default"},
	}
	require.NoError(t, repo.CreateAuditLog(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
