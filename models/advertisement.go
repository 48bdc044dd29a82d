package models

import "time"

// Advertisement is an admin-managed promotional banner, optionally tied to a
// specific tailor, shown to guests while between its start and end dates.
type Advertisement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AdminID   uint       `gorm:"not null;index" json:"admin_id"`
	TailorID  *uint      `gorm:"index" json:"tailor_id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `json:"content"`
	ImageKey  *string    `json:"image_key"`
	ImageURL  *string    `gorm:"-" json:"image_url,omitempty"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// TableName specifies the table name for the Advertisement model
func (Advertisement) TableName() string {
	return "advertisements"
}
