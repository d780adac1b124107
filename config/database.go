package config

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDatabaseURLRequired is returned when the durable store is requested without a
// connection string.
var ErrDatabaseURLRequired = errors.New("LANDING_DATABASE_URL must be set; ensure the landing database is provisioned")

// ConnectDatabase establishes a connection to the PostgreSQL database
func ConnectDatabase(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, ErrDatabaseURLRequired
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}
