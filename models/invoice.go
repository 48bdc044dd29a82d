package models

import "github.com/shopspring/decimal"

// Invoice payment statuses.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice is the VAT-inclusive billing record for an order. TotalAmount is
// the order total times 1.15, rounded to two decimal places.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Order         Order           `gorm:"foreignKey:OrderID" json:"-"`
	ClientID      uint            `gorm:"not null;index" json:"client_id"`
	PaymentID     *uint           `json:"payment_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentStatus string          `gorm:"not null;default:'pending'" json:"payment_status"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
