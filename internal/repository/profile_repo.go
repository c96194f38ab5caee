package repository

import (
	"context"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateWithIdentity inserts the login identity and its profile in one transaction.
func (r *ProfileRepository) CreateWithIdentity(ctx context.Context, ident *models.AuthIdentity, p *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ident).Error; err != nil {
			return err
		}
		p.UserID = ident.ID
		return tx.Create(p).Error
	})
}

func (r *ProfileRepository) GetIdentityByEmail(ctx context.Context, email string) (*models.AuthIdentity, error) {
	var ident models.AuthIdentity
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&ident).Error
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&n).Error
	return n, err
}

// UpdateFields applies a column map to one profile.
func (r *ProfileRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus returns the number of profiles in each status.
func (r *ProfileRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *ProfileRepository) ListAdmins(ctx context.Context) ([]models.Profile, error) {
	var list []models.Profile
	err := r.db.WithContext(ctx).Where("role = ? AND status = ?", "admin", "active").Find(&list).Error
	return list, err
}

// List returns a page of profiles filtered by name/email search and status.
func (r *ProfileRepository) List(ctx context.Context, search, status string, page, limit int) ([]models.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Profile
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// DeleteCascade removes a profile and everything that references it inside a single
// transaction, so a failure part way leaves nothing deleted.
func (r *ProfileRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Profile
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		postIDs := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id)
		noticeIDs := tx.Model(&models.Notice{}).Select("id").Where("author_id = ?", id)
		steps := []struct {
			model interface{}
			query string
			args  []interface{}
		}{
			{&models.NoticeRead{}, "user_id = ? OR notice_id IN (?)", []interface{}{id, noticeIDs}},
			{&models.Message{}, "sender_id = ? OR receiver_id = ?", []interface{}{id, id}},
			{&models.Reaction{}, "user_id = ? OR post_id IN (?)", []interface{}{id, postIDs}},
			{&models.Comment{}, "user_id = ? OR post_id IN (?)", []interface{}{id, postIDs}},
			{&models.Post{}, "user_id = ?", []interface{}{id}},
			{&models.Gift{}, "sender_id = ? OR receiver_id = ?", []interface{}{id, id}},
			{&models.UserStock{}, "user_id = ?", []interface{}{id}},
			{&models.FcmToken{}, "user_id = ?", []interface{}{id}},
			{&models.Notification{}, "user_id = ?", []interface{}{id}},
			{&models.Notice{}, "author_id = ?", []interface{}{id}},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
				return err
			}
		}
		// Varieties stay in the catalog; only the authorship link is dropped.
		if err := tx.Model(&models.Variety{}).Where("created_by = ?", id).Update("created_by", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Profile{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AuthIdentity{}, "id = ?", p.UserID).Error
	})
}
