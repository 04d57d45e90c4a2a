package main

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()

	t.Run("Open failure", func(t *testing.T) {
		openDB = func(string) (*sql.DB, error) {
			return nil, errors.New("bad dsn")
		}

		err := run("postgres://", "up", t.TempDir())
		assert.ErrorContains(t, err, "bad dsn")
	})

	t.Run("Empty directory", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)

		openDB = func(string) (*sql.DB, error) { return conn, nil }

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectClose()

		err = run("postgres://", "up", t.TempDir())
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
