package models

import (
	"time"

	"github.com/google/uuid"
)

// FcmToken is one push registration. A member keeps one row per device.
type FcmToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fcm_tokens_user_token" json:"user_id"`
	Token      string    `gorm:"size:512;not null;uniqueIndex:idx_fcm_tokens_user_token;index" json:"-"`
	DeviceInfo string    `gorm:"size:255" json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (FcmToken) TableName() string {
	return "fcm_tokens"
}
