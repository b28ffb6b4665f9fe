// Package testutil holds the database, fakes and seed helpers shared by the
// package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qualiobra/cmd/internal/config"
	"qualiobra/cmd/internal/domain/sqlite"
	"qualiobra/cmd/internal/utils/uid"
)

// NewDB opens a migrated SQLite database in a temp dir of t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	uid.Init(1)

	db, err := sqlite.Init(config.DBConfig{
		Driver:          sqlite.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "test.db"),
		ConnMaxLifetime: time.Hour,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
