package testutil

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/aiclub-backend/internal/data/db"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

var errNoTestDB = errors.New("no test database configured")

// sqliteTestDSN is a shared in-memory database that lives for the test binary.
const sqliteTestDSN = "file:aiclub_repo_test?mode=memory&cache=shared&_foreign_keys=on"

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg.With("test", tb.Name())
}

// testDialector picks the backend the repo tests run against. TEST_POSTGRES_DSN wins;
// TEST_DB_DRIVER=sqlite runs the same suite on an in-memory SQLite database, the
// engine DB_DRIVER=sqlite deployments use.
func testDialector() (gorm.Dialector, error) {
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return postgres.Open(dsn), nil
	}
	if strings.EqualFold(os.Getenv("TEST_DB_DRIVER"), dbpkg.DriverSQLite) {
		return sqlite.Open(sqliteTestDSN), nil
	}
	return nil, errNoTestDB
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dialector, err := testDialector()
		if err != nil {
			dbErr = err
			return
		}
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
			TranslateError: true,
		})
		if err != nil {
			dbErr = err
			return
		}
		dbErr = dbpkg.AutoMigrateAll(db)
	})

	if errors.Is(dbErr, errNoTestDB) {
		tb.Skip("set TEST_POSTGRES_DSN or TEST_DB_DRIVER=sqlite to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// Tx opens a transaction rolled back at cleanup so tests never see each other's rows.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
