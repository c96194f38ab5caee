package repository

import (
	"context"
	"time"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Thread returns every message between a and b, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var list []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Find(&list).Error
	return list, err
}

// MarkRead marks everything sender sent to receiver as read and returns how many rows changed.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *MessageRepository) DeleteThread(ctx context.Context, a, b uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Delete(&models.Message{})
	return res.RowsAffected, res.Error
}

// UnreadCountsBySender returns, per sender, how many unread messages receiverID has.
func (r *MessageRepository) UnreadCountsBySender(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		SenderID uuid.UUID
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Group("sender_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.SenderID] = row.Count
	}
	return out, nil
}

// ConversationRow is the latest message exchanged with one partner.
type ConversationRow struct {
	PartnerID     uuid.UUID `json:"partner_id"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
}

func (r *MessageRepository) Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationRow, error) {
	var rows []ConversationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (partner_id) partner_id, content AS last_message, created_at AS last_message_at
		FROM (
			SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id, content, created_at
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
		) t
		ORDER BY partner_id, created_at DESC`, userID, userID, userID).Scan(&rows).Error
	return rows, err
}
