package models

import "time"

// Review is a client's rating of a completed order. The unique index on
// (client_id, order_id) enforces one review per client per order.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"not null;uniqueIndex:idx_reviews_client_order" json:"client_id"`
	Client    Client    `gorm:"foreignKey:ClientID" json:"client"`
	OrderID   uint      `gorm:"not null;uniqueIndex:idx_reviews_client_order" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID" json:"-"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
