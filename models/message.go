package models

import "time"

// Participant types for messages.
const (
	ParticipantTailor = "tailor"
	ParticipantClient = "client"
)

// Message is a direct message between a client and a tailor. Sender and
// receiver are profile ids qualified by type rather than user ids, matching
// how conversations are scoped per role.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SenderID     uint      `gorm:"not null;index" json:"sender_id"`
	SenderType   string    `gorm:"not null" json:"sender_type"` // "tailor" or "client"
	ReceiverID   uint      `gorm:"not null;index" json:"receiver_id"`
	ReceiverType string    `gorm:"not null" json:"receiver_type"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	IsRead       bool      `gorm:"not null;default:false" json:"is_read"`
	SentAt       time.Time `json:"sent_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
