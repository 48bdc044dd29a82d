package models

// Tailor represents a marketplace-side service provider profile
type Tailor struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	UserID            uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	User              User    `gorm:"foreignKey:UserID" json:"user"`
	FirstName         string  `gorm:"not null" json:"first_name"`
	LastName          string  `gorm:"not null" json:"last_name"`
	Phone             string  `json:"phone"`
	Address           string  `json:"address"`
	ProfilePictureKey *string `json:"profile_picture_key"` // storage key, resolved to a presigned URL on read
	ProfilePictureURL *string `gorm:"-" json:"profile_picture_url,omitempty"`
	IsApproved        bool    `gorm:"not null;default:false" json:"is_approved"`
}

// TableName specifies the table name for the Tailor model
func (Tailor) TableName() string {
	return "tailors"
}
