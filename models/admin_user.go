package models

import (
	"time"
)

// AdminUser holds a hashed admin credential. Only read when the table-backed credential
// provider is selected.
type AdminUser struct {
	Username     string    `gorm:"type:varchar(50);primaryKey" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the AdminUser model
func (AdminUser) TableName() string {
	return "admin_users"
}

// Session is the table a cookie-session middleware would use. Nothing reads or writes it.
type Session struct {
	Sid    string    `gorm:"type:varchar;primaryKey" json:"sid"`
	Sess   []byte    `gorm:"type:jsonb;not null" json:"sess"`
	Expire time.Time `gorm:"not null;index:IDX_session_expire" json:"expire"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// All lists every persisted model, in dependency order
func All() []interface{} {
	return []interface{}{
		&Session{},
		&User{},
		&Inquiry{},
		&ServiceType{},
		&Appointment{},
		&AdminUser{},
	}
}
