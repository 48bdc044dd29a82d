package models

import "github.com/shopspring/decimal"

// Measurement stores a client's body measurements, reused when placing
// orders. All dimensions are optional.
type Measurement struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	ClientID     uint                `gorm:"not null;index" json:"client_id"`
	Client       Client              `gorm:"foreignKey:ClientID" json:"-"`
	Chest        decimal.NullDecimal `gorm:"type:decimal(6,2)" json:"chest"`
	Waist        decimal.NullDecimal `gorm:"type:decimal(6,2)" json:"waist"`
	Hips         decimal.NullDecimal `gorm:"type:decimal(6,2)" json:"hips"`
	Length       decimal.NullDecimal `gorm:"type:decimal(6,2)" json:"length"`
	SleeveLength decimal.NullDecimal `gorm:"type:decimal(6,2)" json:"sleeve_length"`
	Notes        string              `json:"notes"`
}

// TableName specifies the table name for the Measurement model
func (Measurement) TableName() string {
	return "measurements"
}
