package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Appointment statuses used by the admin panel
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment represents a booking for a service type at a date and time
type Appointment struct {
	ID              string              `gorm:"type:varchar;primaryKey" json:"id"`
	Name            string              `gorm:"type:varchar(100);not null" json:"name"`
	Phone           string              `gorm:"type:varchar(20);not null" json:"phone"`
	Email           *string             `gorm:"type:varchar(255)" json:"email"`
	ServiceTypeID   *string             `gorm:"type:varchar;index" json:"serviceTypeId"` // nullable, the service type may be gone
	AppointmentDate time.Time           `gorm:"not null;index" json:"appointmentDate"`
	Notes           *string             `gorm:"type:text" json:"notes"`
	Address         *string             `gorm:"type:text" json:"address"`
	Latitude        decimal.NullDecimal `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude       decimal.NullDecimal `gorm:"type:decimal(11,8)" json:"longitude"`
	Status          string              `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, confirmed, completed, cancelled
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate fills the id and default status
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusPending
	}
	return nil
}

// InsertAppointment is the booking form payload. Location fields come from the map
// search widget.
type InsertAppointment struct {
	Name            string              `json:"name" binding:"required,max=100"`
	Phone           string              `json:"phone" binding:"required,max=20"`
	Email           *string             `json:"email" binding:"omitempty,max=255"`
	ServiceTypeID   *string             `json:"serviceTypeId"`
	AppointmentDate time.Time           `json:"appointmentDate" binding:"required"`
	Notes           *string             `json:"notes"`
	Address         *string             `json:"address"`
	Latitude        decimal.NullDecimal `json:"latitude"`
	Longitude       decimal.NullDecimal `json:"longitude"`
}

// ToAppointment builds a new pending appointment
func (in InsertAppointment) ToAppointment() Appointment {
	return Appointment{
		Name:            in.Name,
		Phone:           in.Phone,
		Email:           in.Email,
		ServiceTypeID:   in.ServiceTypeID,
		AppointmentDate: in.AppointmentDate,
		Notes:           in.Notes,
		Address:         in.Address,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Status:          AppointmentStatusPending,
	}
}

// IsValidAppointmentStatus reports whether status is a known appointment status
func IsValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}
