package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStock is how many seedlings of a variety a member currently holds.
type UserStock struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_stocks_user_variety" json:"user_id"`
	VarietyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_stocks_user_variety;index" json:"variety_id"`
	Quantity  int       `gorm:"not null;default:0;check:chk_user_stocks_quantity,quantity >= 0" json:"quantity"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variety *Variety `gorm:"foreignKey:VarietyID" json:"variety,omitempty"`
}

func (UserStock) TableName() string {
	return "user_stocks"
}
