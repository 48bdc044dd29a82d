package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records a successful charge against an order's invoice. Rows are
// only created when the gateway reports success.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	Order         Order           `gorm:"foreignKey:OrderID" json:"-"`
	ClientID      uint            `gorm:"not null;index" json:"client_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        string          `gorm:"not null" json:"method"`
	Status        string          `gorm:"not null" json:"status"`
	TransactionID string          `gorm:"uniqueIndex;not null" json:"transaction_id"`
	PaidAt        time.Time       `json:"paid_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
