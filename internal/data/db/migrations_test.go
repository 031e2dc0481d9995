package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	// Versions must be strictly increasing with paired up/down SQL.
	for i, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, "migration %03d missing up SQL", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %03d missing down SQL", m.Version)
		if i > 0 {
			assert.Greater(t, m.Version, migrations[i-1].Version)
		}
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename  string
		version   int
		name      string
		direction string
		wantErr   bool
	}{
		{"001_init.up.sql", 1, "init", "up", false},
		{"001_init.down.sql", 1, "init", "down", false},
		{"012_add_follows.up.sql", 12, "add_follows", "up", false},
		{"init.up.sql", 0, "", "", true},
		{"001_init.sql", 0, "", "", true},
		{"abc_init.up.sql", 0, "", "", true},
		{"000_init.up.sql", 0, "", "", true},
		{"001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.direction, direction)
		})
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("open applies all migrations", func(t *testing.T) {
		database, err := Open(t.TempDir(), DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		applied, err := appliedVersions(ctx, database.Conn())
		require.NoError(t, err)
		assert.True(t, applied[1], "initial migration not applied")
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		database, err := Open(t.TempDir(), DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		assert.NoError(t, database.Migrate(ctx))
	})

	t.Run("down reverts the schema", func(t *testing.T) {
		database, err := Open(t.TempDir(), DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		require.NoError(t, database.MigrateDown(ctx, 1))

		applied, err := appliedVersions(ctx, database.Conn())
		require.NoError(t, err)
		assert.False(t, applied[1])
	})

	t.Run("down beyond applied fails", func(t *testing.T) {
		database, err := Open(t.TempDir(), DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		assert.Error(t, database.MigrateDown(ctx, 99))
	})
}
