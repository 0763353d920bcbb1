package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigrationBumpsPastLatestVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20300101000000_future.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := createSQLMigration(dir, "add gift cards", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "20300101000001_add_gift_cards.sql", filepath.Base(path))
}

func TestCreateSQLMigrationUsesClock(t *testing.T) {
	dir := t.TempDir()
	path, err := createSQLMigration(dir, "Orders: add notes", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "20260304050607_orders_add_notes.sql", filepath.Base(path))

	_, err = createSQLMigration(dir, "!!!", time.Now())
	require.Error(t, err)
}

func TestValidateEmbeddedMatchesDisk(t *testing.T) {
	require.NoError(t, ValidateEmbedded())

	onDisk, err := os.ReadDir("migrations")
	require.NoError(t, err)
	bundled, err := embedded.ReadDir(embeddedDir)
	require.NoError(t, err)
	require.Len(t, bundled, len(onDisk))
}

func TestValidateFSReportsUnbalancedStatements(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_broken.sql"), []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_dupe.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "StatementBegin")
	require.Contains(t, err.Error(), "duplicate migration version")
}
