// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-auth-service/internal/adapter/db/migrations"
)

// NewSQLite returns an in-memory SQLite database with the production schema
// applied. The pool is pinned to one connection so the in-memory database
// survives between queries.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	_, err = migrations.Up(context.Background(), sqlDB, migrations.DriverSQLite, zaptest.NewLogger(t))
	require.NoError(t, err)

	return db
}
