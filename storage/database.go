package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/clinic-landing-api/config"
	"github.com/kendall-kelly/clinic-landing-api/migrations"
	"github.com/kendall-kelly/clinic-landing-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStorage translates each operation into one statement against the relational
// schema. Timestamps are written and compared in UTC.
type DatabaseStorage struct {
	db *gorm.DB
}

// OpenDatabaseStorage connects to databaseURL. An empty URL fails immediately.
func OpenDatabaseStorage(databaseURL string) (*DatabaseStorage, error) {
	db, err := config.ConnectDatabase(databaseURL)
	if err != nil {
		return nil, err
	}
	return NewDatabaseStorage(db)
}

// NewDatabaseStorage wraps an open gorm handle
func NewDatabaseStorage(db *gorm.DB) (*DatabaseStorage, error) {
	if db == nil {
		return nil, config.ErrDatabaseURLRequired
	}
	return &DatabaseStorage{db: db}, nil
}

// DB exposes the gorm handle
func (s *DatabaseStorage) DB() *gorm.DB {
	return s.db
}

// Migrate applies the embedded SQL migrations
func (s *DatabaseStorage) Migrate(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := migrations.Up(ctx, sqlDB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *DatabaseStorage) Kind() string {
	return KindPostgres
}

func (s *DatabaseStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *DatabaseStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStorage) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	user := models.User{ID: in.ID}
	in.Apply(&user)
	user.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(append(in.Columns(), "updated_at")),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, user.ID)
}

func (s *DatabaseStorage) CreateInquiry(ctx context.Context, in models.InsertInquiry) (*models.Inquiry, error) {
	inquiry := in.ToInquiry()
	inquiry.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(&inquiry).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (s *DatabaseStorage) GetAllInquiries(ctx context.Context) ([]models.Inquiry, error) {
	inquiries := []models.Inquiry{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error
	return inquiries, err
}

func (s *DatabaseStorage) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	return s.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *DatabaseStorage) GetAllServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	serviceTypes := []models.ServiceType{}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", models.ServiceTypeActive).
		Order("name ASC").
		Find(&serviceTypes).Error
	return serviceTypes, err
}

func (s *DatabaseStorage) CreateServiceType(ctx context.Context, in models.InsertServiceType) (*models.ServiceType, error) {
	serviceType := in.ToServiceType()
	serviceType.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(&serviceType).Error; err != nil {
		return nil, err
	}
	return &serviceType, nil
}

func (s *DatabaseStorage) CreateAppointment(ctx context.Context, in models.InsertAppointment) (*models.Appointment, error) {
	appointment := in.ToAppointment()
	now := time.Now().UTC()
	appointment.AppointmentDate = appointment.AppointmentDate.UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(&appointment).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *DatabaseStorage) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	err := s.db.WithContext(ctx).Order("appointment_date DESC").Find(&appointments).Error
	return appointments, err
}

func (s *DatabaseStorage) GetAppointmentsByDate(ctx context.Context, day time.Time) ([]models.Appointment, error) {
	start, end := DayBounds(day)

	appointments := []models.Appointment{}
	err := s.db.WithContext(ctx).
		Where("appointment_date >= ? AND appointment_date <= ?", start.UTC(), end.UTC()).
		Order("appointment_date ASC").
		Find(&appointments).Error
	return appointments, err
}

func (s *DatabaseStorage) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	return s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *DatabaseStorage) GetAdminUser(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *DatabaseStorage) SaveAdminUser(ctx context.Context, admin *models.AdminUser) error {
	admin.UpdatedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(admin).Error
}
