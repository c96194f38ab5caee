package repository

import (
	"context"
	"time"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

func (r *NoticeRepository) Create(ctx context.Context, n *models.Notice) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notice_id = ?", id).Delete(&models.NoticeRead{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Notice{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *NoticeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.NoticeWithRead, error) {
	var list []models.NoticeWithRead
	err := r.db.WithContext(ctx).Model(&models.Notice{}).
		Select("notices.*, (nr.id IS NOT NULL) AS is_read").
		Joins("LEFT JOIN notice_reads nr ON nr.notice_id = notices.id AND nr.user_id = ?", userID).
		Order("notices.created_at DESC").Scan(&list).Error
	return list, err
}

func (r *NoticeRepository) MarkRead(ctx context.Context, noticeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.NoticeRead{NoticeID: noticeID, UserID: userID, ReadAt: time.Now()}).Error
}
