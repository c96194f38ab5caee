package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two profiles.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair;index:idx_messages_unread" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_unread" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
