package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author    *Profile   `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Reactions []Reaction `gorm:"foreignKey:PostID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Author *Profile `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// Reaction holds one reaction per (post, user).
type Reaction struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user" json:"post_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user;index" json:"user_id"`
	ReactionType string    `gorm:"size:20;not null" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}
