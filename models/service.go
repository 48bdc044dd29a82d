package models

import "github.com/shopspring/decimal"

// Service represents a bookable service offered by a tailor
type Service struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CategoryID      uint            `gorm:"not null;index" json:"category_id"`
	Category        Category        `gorm:"foreignKey:CategoryID" json:"category"`
	TailorID        uint            `gorm:"not null;index" json:"tailor_id"`
	Tailor          Tailor          `gorm:"foreignKey:TailorID" json:"-"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
