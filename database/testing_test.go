package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sahilchouksey/college-hub/utils/logger"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestStore opens a private in-memory database and migrates it.
func setupTestStore(t *testing.T) *GORMStore {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	store, err := Open(sqlite.Open(dsn), gormlogger.Default.LogMode(gormlogger.Silent), logger.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return store
}
