package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. "completed" and "cancelled" are terminal.
const (
	OrderStatusRequested  = "requested"
	OrderStatusAccepted   = "accepted"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order service types. Pickup bookings use 60-minute slots, home visits 120.
const (
	ServiceTypePickup    = "pickup"
	ServiceTypeHomeVisit = "home_visit"
)

// Order represents a client's request for one or more tailor services.
// PlatformCommission + TailorPayout always equals TotalPrice (10%/90% split).
type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ClientID           uint            `gorm:"not null;index" json:"client_id"`
	Client             Client          `gorm:"foreignKey:ClientID" json:"client"`
	TailorID           uint            `gorm:"not null;index" json:"tailor_id"`
	Tailor             Tailor          `gorm:"foreignKey:TailorID" json:"tailor"`
	Status             string          `gorm:"not null;default:'requested'" json:"status"`
	Address            string          `json:"address"`
	ClientNotes        string          `json:"client_notes"`
	UploadedImageKeys  string          `json:"uploaded_image_keys"` // JSON array of storage keys
	TotalPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	PlatformCommission decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"platform_commission"`
	TailorPayout       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tailor_payout"`
	ServiceType        string          `gorm:"not null" json:"service_type"` // "pickup" or "home_visit"
	ScheduledPickup    *time.Time      `json:"scheduled_pickup"`
	ScheduledVisit     *time.Time      `json:"scheduled_visit"`
	CompletionDate     *time.Time      `json:"completion_date"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ScheduledAt returns the pickup or visit time, whichever the order carries.
func (o *Order) ScheduledAt() *time.Time {
	if o.ScheduledPickup != nil {
		return o.ScheduledPickup
	}
	return o.ScheduledVisit
}
