package models

import (
	"time"

	"github.com/google/uuid"
)

// Notice is an admin announcement shown to every member.
type Notice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notice) TableName() string {
	return "notices"
}

type NoticeRead struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NoticeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notice_reads_notice_user" json:"notice_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notice_reads_notice_user;index" json:"user_id"`
	ReadAt   time.Time `json:"read_at"`
}

func (NoticeRead) TableName() string {
	return "notice_reads"
}

// NoticeWithRead is a notice plus whether the viewer has read it.
type NoticeWithRead struct {
	Notice
	IsRead bool `json:"is_read"`
}
