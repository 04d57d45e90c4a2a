package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE order_counters (user_id bigint);
ALTER TABLE order_counters ADD COLUMN value bigint;

-- +migrate Down
DROP TABLE order_counters;
`
	t.Run("Up", func(t *testing.T) {
		up := ExtractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE order_counters")
		assert.Contains(t, up, "ALTER TABLE order_counters")
		assert.NotContains(t, up, "DROP TABLE")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Down", func(t *testing.T) {
		down := ExtractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE order_counters")
		assert.NotContains(t, down, "CREATE TABLE")
	})
}

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMigrate_Up(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dir := t.TempDir()
	writeMigration(t, dir, "0002_sales.sql", "-- +migrate Up\nCREATE TABLE sales (id text);\n-- +migrate Down\nDROP TABLE sales;")
	writeMigration(t, dir, "0001_catalog.sql", "-- +migrate Up\nCREATE TABLE categories (id text);\n-- +migrate Down\nDROP TABLE categories;")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_catalog.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0002_sales.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE sales").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_sales.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = Migrate(context.Background(), sqlDB, MigrateUp, dir)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_UpFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dir := t.TempDir()
	writeMigration(t, dir, "0001_bad.sql", "-- +migrate Up\nCREATE TABLE broken (;")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE broken").
		WillReturnError(errors.New("syntax error"))

	err = Migrate(context.Background(), sqlDB, MigrateUp, dir)
	assert.ErrorContains(t, err, "migration failed (0001_bad.sql)")
}

func TestMigrate_Down(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dir := t.TempDir()
	writeMigration(t, dir, "0003_order_counters.sql", "-- +migrate Up\nCREATE TABLE order_counters (user_id bigint);\n-- +migrate Down\nDROP TABLE order_counters;")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0003_order_counters.sql"))
	mock.ExpectExec("DROP TABLE order_counters").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs("0003_order_counters.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = Migrate(context.Background(), sqlDB, MigrateDown, dir)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_DownNothingApplied(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	err = Migrate(context.Background(), sqlDB, MigrateDown, t.TempDir())
	assert.NoError(t, err)
}

func TestMigrate_UnknownMode(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = Migrate(context.Background(), sqlDB, "sideways", t.TempDir())
	assert.ErrorContains(t, err, "unknown mode")
}

func TestRepositoryMigrations(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)

		assert.NotEmpty(t, ExtractMigrationPart(string(content), "Up"), f)
		assert.NotEmpty(t, ExtractMigrationPart(string(content), "Down"), f)
	}
}
