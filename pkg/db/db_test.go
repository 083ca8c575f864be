package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	require.Error(t, err)

	d, err := Dialect(Config{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func TestPostgresURL(t *testing.T) {
	url := PostgresURL(Config{User: "u", Password: "p", Host: "db", Port: "5432", Name: "storepulse"})
	assert.Equal(t, "postgres://u:p@db:5432/storepulse?sslmode=disable", url)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: stores.store_id")))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}
