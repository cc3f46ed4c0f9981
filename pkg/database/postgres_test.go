package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/admissions-crm-api/pkg/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "crm",
		Password: "p@ss word",
		Name:     "crm",
		SSLMode:  "disable",
	})
	assert.Equal(t, "postgres://crm:p%40ss%20word@db:5432/crm?application_name=admissions-crm-api&sslmode=disable", dsn)
}
