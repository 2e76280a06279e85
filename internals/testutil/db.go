// Package testutil provides the in-memory database and fixture builders
// shared by the service tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "collegehub_backend/internals/databases"
	helper "collegehub_backend/internals/helpers"
)

// OpenDB returns a migrated sqlite database scoped to the test. The
// shared-cache DSN keeps gorm's pooled connections on one memory store.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// FreezeNow pins the service clock for the duration of the test.
func FreezeNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := helper.Now
	helper.Now = func() time.Time { return at }
	t.Cleanup(func() { helper.Now = prev })
}

// AdvanceNow moves the frozen clock; call FreezeNow first.
func AdvanceNow(t *testing.T, at time.Time) {
	t.Helper()
	helper.Now = func() time.Time { return at }
}

// NewID is shorthand for fixtures that only need a foreign key value.
func NewID() uuid.UUID { return uuid.New() }
