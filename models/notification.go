package models

import "time"

// Notification statuses.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is an in-app notice for an admin, tailor or client. Exactly
// one of the recipient ids is set.
type Notification struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AdminID  *uint     `gorm:"index" json:"admin_id"`
	TailorID *uint     `gorm:"index" json:"tailor_id"`
	ClientID *uint     `gorm:"index" json:"client_id"`
	Message  string    `gorm:"not null" json:"message"`
	Type     string    `gorm:"not null" json:"type"` // e.g. "order_status", "order_accepted"
	Status   string    `gorm:"not null;default:'unread'" json:"status"`
	Date     time.Time `json:"date"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
