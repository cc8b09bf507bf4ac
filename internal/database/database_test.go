package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/config"
	"github.com/touchline-tv/touchline/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewSQLite(t *testing.T) {
	db := testDB(t)
	assert.Equal(t, "sqlite", db.Driver())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil)
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate())

	// Migrated tables accept writes.
	source := &models.PlaylistSource{
		Name:     "Test Provider",
		URL:      "http://provider.example/playlist.m3u",
		Category: models.CategorySports,
		Enabled:  true,
	}
	require.NoError(t, db.Create(source).Error)
	assert.False(t, source.ID.IsZero())

	epg := &models.EpgSource{
		Name:    "Test Guide",
		URL:     "http://provider.example/guide.xml",
		Role:    models.EpgRoleProvider,
		Enabled: true,
	}
	require.NoError(t, db.Create(epg).Error)

	// Migrate is idempotent.
	assert.NoError(t, db.Migrate())
}

func TestClose(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, db.Close())
}
