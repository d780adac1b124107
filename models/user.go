package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account holder profile, managed through the admin user routes
type User struct {
	ID              string    `gorm:"type:varchar;primaryKey" json:"id"`
	Email           *string   `gorm:"type:varchar;uniqueIndex" json:"email"`
	FirstName       *string   `gorm:"column:first_name;type:varchar" json:"firstName"`
	LastName        *string   `gorm:"column:last_name;type:varchar" json:"lastName"`
	ProfileImageURL *string   `gorm:"column:profile_image_url;type:varchar" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when the caller did not supply one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UpsertUser carries the fields of an insert-or-merge. Nil pointers are left untouched
// on an existing record.
type UpsertUser struct {
	ID              string  `json:"id"`
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// Columns returns the column names the upsert supplies, in a stable order.
func (u UpsertUser) Columns() []string {
	var cols []string
	if u.Email != nil {
		cols = append(cols, "email")
	}
	if u.FirstName != nil {
		cols = append(cols, "first_name")
	}
	if u.LastName != nil {
		cols = append(cols, "last_name")
	}
	if u.ProfileImageURL != nil {
		cols = append(cols, "profile_image_url")
	}
	return cols
}

// Apply merges the supplied fields over user.
func (u UpsertUser) Apply(user *User) {
	if u.Email != nil {
		user.Email = u.Email
	}
	if u.FirstName != nil {
		user.FirstName = u.FirstName
	}
	if u.LastName != nil {
		user.LastName = u.LastName
	}
	if u.ProfileImageURL != nil {
		user.ProfileImageURL = u.ProfileImageURL
	}
}
