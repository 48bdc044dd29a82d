package models

// Admin represents a platform administrator profile
type Admin struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Name   string `gorm:"not null" json:"name"`
}

// TableName specifies the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}
