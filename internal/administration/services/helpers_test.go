package services

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/hmsdev/hospital-backend/internal/migrations"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := sqlitedb.Connect("file::memory:")
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}
