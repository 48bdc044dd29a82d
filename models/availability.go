package models

// Availability is a tailor-declared recurring weekly time window in which
// they accept bookings. Times of day are stored as "HH:MM" strings; nil
// means unset. Available rows for the same tailor/day must not overlap.
type Availability struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TailorID    uint    `gorm:"not null;index" json:"tailor_id"`
	Tailor      Tailor  `gorm:"foreignKey:TailorID" json:"-"`
	DayOfWeek   string  `gorm:"not null" json:"day_of_week"` // "monday".."sunday"
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsAvailable bool    `gorm:"not null;default:true" json:"is_available"`
}

// TableName specifies the table name for the Availability model
func (Availability) TableName() string {
	return "availabilities"
}
