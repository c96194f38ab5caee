package models

import (
	"time"

	"grapebd/g2g/internal/domain"

	"github.com/google/uuid"
)

type Gift struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiver_id"`
	VarietyID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"variety_id"`
	GiftRoundID uuid.UUID  `gorm:"type:uuid;not null;index" json:"gift_round_id"`
	Quantity    int        `gorm:"not null;check:chk_gifts_quantity,quantity > 0" json:"quantity"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending, approved, sent, received, cancelled
	AdminNotes  string     `gorm:"type:text" json:"admin_notes"`
	ApprovedAt  *time.Time `json:"approved_at"`
	SentAt      *time.Time `json:"sent_at"`
	ReceivedAt  *time.Time `json:"received_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Sender    *Profile   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver  *Profile   `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Variety   *Variety   `gorm:"foreignKey:VarietyID" json:"variety,omitempty"`
	GiftRound *GiftRound `gorm:"foreignKey:GiftRoundID" json:"gift_round,omitempty"`
}

func (Gift) TableName() string {
	return "gifts"
}

func (g *Gift) IsTerminal() bool { return domain.IsTerminalGiftStatus(g.Status) }
