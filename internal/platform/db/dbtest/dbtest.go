// Package dbtest opens throwaway migrated sqlite databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"LabCV-backend/internal/platform/config"
	"LabCV-backend/internal/platform/db"
)

func Open(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "labcv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(ctx, conn, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
