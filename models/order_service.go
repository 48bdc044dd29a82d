package models

import "github.com/shopspring/decimal"

// OrderService links an order to a booked service with the price snapshotted
// at order time. Rows are immutable after creation.
type OrderService struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Order     Order           `gorm:"foreignKey:OrderID" json:"-"`
	ServiceID uint            `gorm:"not null;index" json:"service_id"`
	Service   Service         `gorm:"foreignKey:ServiceID" json:"service"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Note      string          `json:"note"`
	ImageKey  *string         `json:"image_key"`
}

// TableName specifies the table name for the OrderService model
func (OrderService) TableName() string {
	return "order_services"
}
