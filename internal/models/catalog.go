package models

import (
	"time"

	"github.com/google/uuid"
)

// Variety is a seedling cultivar in the admin-owned catalog.
type Variety struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string     `gorm:"size:120;not null;index" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	ThumbnailImage string     `gorm:"size:512" json:"thumbnail_image"`
	DetailsURL     string     `gorm:"size:512" json:"details_url"`
	IsActive       bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Variety) TableName() string {
	return "varieties"
}

// GiftRound is a campaign label gifts are grouped under.
type GiftRound struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:160;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (GiftRound) TableName() string {
	return "gift_rounds"
}
