package repository

import (
	"context"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FcmTokenRepository struct {
	db *gorm.DB
}

func NewFcmTokenRepository(db *gorm.DB) *FcmTokenRepository {
	return &FcmTokenRepository{db: db}
}

// Upsert registers a token for a user. Re-registering refreshes device info.
func (r *FcmTokenRepository) Upsert(ctx context.Context, t *models.FcmToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
	}).Create(t).Error
}

func (r *FcmTokenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FcmToken, error) {
	var list []models.FcmToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *FcmTokenRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, token).Delete(&models.FcmToken{}).Error
}

// DeleteByToken drops a token for every user it is registered under.
func (r *FcmTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.FcmToken{}).Error
}
