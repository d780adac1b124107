// Package storage persists inquiries, service types, appointments and users. Two
// interchangeable backends exist: DatabaseStorage over gorm/Postgres and the volatile
// MemoryStorage used when no database is configured.
package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kendall-kelly/clinic-landing-api/config"
	"github.com/kendall-kelly/clinic-landing-api/models"
)

// Backend kinds reported by Storage.Kind
const (
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the persistence contract shared by both backends. Status updates against an
// unknown id succeed without effect in both.
type Storage interface {
	Kind() string
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, user models.UpsertUser) (*models.User, error)

	CreateInquiry(ctx context.Context, inquiry models.InsertInquiry) (*models.Inquiry, error)
	// GetAllInquiries returns inquiries newest first.
	GetAllInquiries(ctx context.Context) ([]models.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, id, status string) error

	// GetAllServiceTypes returns the active service types ordered by name.
	GetAllServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	CreateServiceType(ctx context.Context, serviceType models.InsertServiceType) (*models.ServiceType, error)

	CreateAppointment(ctx context.Context, appointment models.InsertAppointment) (*models.Appointment, error)
	// GetAllAppointments returns appointments with the latest appointment date first.
	GetAllAppointments(ctx context.Context) ([]models.Appointment, error)
	// GetAppointmentsByDate returns the appointments on the calendar day of day, in day's
	// location, earliest first.
	GetAppointmentsByDate(ctx context.Context, day time.Time) ([]models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
}

// AdminUserStore reads and writes hashed admin credentials
type AdminUserStore interface {
	GetAdminUser(ctx context.Context, username string) (*models.AdminUser, error)
	SaveAdminUser(ctx context.Context, admin *models.AdminUser) error
}

// New picks the backend once at startup. Without a database URL it degrades to memory
// storage and logs a warning; with one, connection failures are returned.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	if !cfg.HasDatabase() {
		slog.Warn("LANDING_DATABASE_URL is not set, falling back to in-memory storage for development")
		return NewMemoryStorage(), nil
	}

	db, err := OpenDatabaseStorage(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// DayBounds returns the first and last millisecond of day's calendar day in day's
// location. Both bounds are inclusive.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}
