package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/kendall-kelly/clinic-landing-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EnsureTestEnvironment is called from TestMain. It sets GO_ENV=test when unset and exits
// when GO_ENV names any other environment, so tests never run against a real database.
func EnsureTestEnvironment() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		os.Setenv("GO_ENV", "test")
		return
	}
	if env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: tests must run with GO_ENV=test to prevent data loss (current GO_ENV=%q)\n", env)
		os.Exit(1)
	}
}

// RequireTestEnvironment fails the test immediately if GO_ENV is not "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// NewTestDB opens a private in-memory SQLite database with every model migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Every connection to ":memory:" is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
