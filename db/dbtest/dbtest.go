package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"github.com/meinhoongagan/ignite-call/db"
)

// UseTestDB points db.DB at a fresh in-memory sqlite database with the schema
// migrated, and restores the previous handle when the test ends.
func UseTestDB(t testing.TB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=off", uuid.NewString())
	conn, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// one connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)

	prev := db.DB
	db.DB = conn
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
		db.DB = prev
	})
}
