package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vocalab-users/internal/adapter/db/postgres"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("SERVICE_NAME", "vocalab-users")
	t.Setenv("SERVICE_VERSION", "2.3.4")

	out, err := execute(t, "version", "--config", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "vocalab-users v2.3.4\n", out)
}

func TestMigrateCommand_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "migrate", "--config", t.TempDir())
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	assert.True(t, db.Migrator().HasTable(&postgres.ProfileSchema{}))
}

func TestMigrateCommand_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "migrate", "--config", t.TempDir())
	assert.ErrorContains(t, err, "unsupported database driver")
}
