package repository

import (
	"context"
	"errors"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStatusConflict means the gift changed status between read and write.
var ErrStatusConflict = errors.New("gift status changed concurrently")

type GiftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) *GiftRepository {
	return &GiftRepository{db: db}
}

// GiftFilter narrows admin gift listings. Empty fields match everything.
type GiftFilter struct {
	Status  string
	RoundID *uuid.UUID
	UserID  *uuid.UUID
	Page    int
	Limit   int
}

// CreateWithDebit debits the sender's stock and inserts the gift in one transaction.
// ErrInsufficientStock is returned, and nothing is written, when the sender holds
// fewer than g.Quantity seedlings at commit time.
func (r *GiftRepository) CreateWithDebit(ctx context.Context, g *models.Gift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debit(tx, g.SenderID, g.VarietyID, g.Quantity); err != nil {
			return err
		}
		return tx.Create(g).Error
	})
}

// Transition moves g from its current status to `to`, guarded on the current status.
// When restoreStock is set the gift quantity is credited back to the sender in the
// same transaction.
func (r *GiftRepository) Transition(ctx context.Context, g *models.Gift, to string, fields map[string]interface{}, restoreStock bool) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Gift{}).Where("id = ? AND status = ?", g.ID, g.Status).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		if restoreStock {
			return credit(tx, g.SenderID, g.VarietyID, g.Quantity)
		}
		return nil
	})
}

func (r *GiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gift, error) {
	var g models.Gift
	err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").Preload("Variety").Preload("GiftRound").
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiftRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Gift, error) {
	var list []models.Gift
	err := r.db.WithContext(ctx).Where("sender_id = ?", senderID).
		Preload("Receiver").Preload("Variety").Preload("GiftRound").
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GiftRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]models.Gift, error) {
	var list []models.Gift
	err := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).
		Preload("Sender").Preload("Variety").Preload("GiftRound").
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GiftRepository) List(ctx context.Context, f GiftFilter) ([]models.Gift, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Gift{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoundID != nil {
		q = q.Where("gift_round_id = ?", *f.RoundID)
	}
	if f.UserID != nil {
		q = q.Where("sender_id = ? OR receiver_id = ?", *f.UserID, *f.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Gift
	err := q.Preload("Sender").Preload("Receiver").Preload("Variety").Preload("GiftRound").
		Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}

// CountPending is used for the admin badge.
func (r *GiftRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Gift{}).Where("status = ?", domain.GiftStatusPending).Count(&n).Error
	return n, err
}
