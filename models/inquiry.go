package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry statuses. A missing status is read as InquiryStatusNew.
const (
	InquiryStatusNew       = "new"
	InquiryStatusContacted = "contacted"
	InquiryStatusCompleted = "completed"
)

// Inquiry represents a contact form submission waiting for staff follow-up
type Inquiry struct {
	ID        string    `gorm:"type:varchar;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Inquiry   string    `gorm:"type:text;not null" json:"inquiry"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	Status    string    `gorm:"type:varchar(20);default:'new'" json:"status"` // new, contacted, completed
}

// TableName specifies the table name for the Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate fills the id and default status
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InquiryStatusNew
	}
	return nil
}

// InsertInquiry is the public contact form payload
type InsertInquiry struct {
	Name    string `json:"name" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"required,max=20"`
	Inquiry string `json:"inquiry" binding:"required"`
}

// ToInquiry builds a new, not yet persisted, inquiry
func (in InsertInquiry) ToInquiry() Inquiry {
	return Inquiry{
		Name:    in.Name,
		Phone:   in.Phone,
		Inquiry: in.Inquiry,
		Status:  InquiryStatusNew,
	}
}

// IsValidInquiryStatus reports whether status is one of the enumerated inquiry statuses
func IsValidInquiryStatus(status string) bool {
	switch status {
	case InquiryStatusNew, InquiryStatusContacted, InquiryStatusCompleted:
		return true
	}
	return false
}
