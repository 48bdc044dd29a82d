package models

// Category groups tailor services (e.g. alterations, custom garments)
type Category struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	AdminID uint   `gorm:"not null;index" json:"admin_id"`
	Name    string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
