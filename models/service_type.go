package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Values of ServiceType.IsActive. Only ServiceTypeActive rows are listed.
const (
	ServiceTypeActive   = "active"
	ServiceTypeInactive = "inactive"
)

// ServiceType represents a bookable offering
type ServiceType struct {
	ID          string              `gorm:"type:varchar;primaryKey" json:"id"`
	Name        string              `gorm:"type:varchar(100);not null;index" json:"name"`
	Description *string             `gorm:"type:text" json:"description"`
	Duration    int                 `gorm:"not null" json:"duration"` // minutes
	Price       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	IsActive    string              `gorm:"type:varchar(10);default:'active'" json:"isActive"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// TableName specifies the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}

// BeforeCreate fills the id and the active flag
func (s *ServiceType) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.IsActive == "" {
		s.IsActive = ServiceTypeActive
	}
	return nil
}

// Active reports whether the service type should be offered for booking
func (s ServiceType) Active() bool {
	return s.IsActive == ServiceTypeActive
}

// InsertServiceType is the payload for creating a service type
type InsertServiceType struct {
	Name        string              `json:"name" binding:"required,max=100"`
	Description *string             `json:"description"`
	Duration    int                 `json:"duration" binding:"required,gt=0"`
	Price       decimal.NullDecimal `json:"price"`
}

// ToServiceType builds a new, active service type
func (in InsertServiceType) ToServiceType() ServiceType {
	return ServiceType{
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Price:       in.Price,
		IsActive:    ServiceTypeActive,
	}
}
