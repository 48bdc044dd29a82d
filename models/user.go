package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleTailor = "tailor"
	RoleClient = "client"
)

// User account statuses.
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User represents a login account. Role-specific profile data lives in the
// Admin, Tailor and Client tables, keyed back to this record.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'client'" json:"role"` // "admin", "tailor" or "client"
	Status       string         `gorm:"not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
