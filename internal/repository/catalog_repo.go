package repository

import (
	"context"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateVariety inserts v. is_active has a column default, so an inactive variety
// needs a second write to stick.
func (r *CatalogRepository) CreateVariety(ctx context.Context, v *models.Variety) error {
	active := v.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		v.IsActive = false
		return tx.Model(v).Update("is_active", false).Error
	})
}

func (r *CatalogRepository) GetVariety(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	var v models.Variety
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CatalogRepository) SaveVariety(ctx context.Context, v *models.Variety) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *CatalogRepository) DeleteVariety(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Variety{}, "id = ?", id).Error
}

func (r *CatalogRepository) ListVarieties(ctx context.Context, activeOnly bool) ([]models.Variety, error) {
	var list []models.Variety
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

// CountVarietyReferences counts stock and gift rows pointing at a variety.
func (r *CatalogRepository) CountVarietyReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var stocks, gifts int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.UserStock{}).Where("variety_id = ?", id).Count(&stocks).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.Gift{}).Where("variety_id = ?", id).Count(&gifts).Error; err != nil {
		return 0, err
	}
	return stocks + gifts, nil
}

func (r *CatalogRepository) CreateRound(ctx context.Context, g *models.GiftRound) error {
	active := g.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		g.IsActive = false
		return tx.Model(g).Update("is_active", false).Error
	})
}

func (r *CatalogRepository) GetRound(ctx context.Context, id uuid.UUID) (*models.GiftRound, error) {
	var g models.GiftRound
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *CatalogRepository) SaveRound(ctx context.Context, g *models.GiftRound) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *CatalogRepository) DeleteRound(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.GiftRound{}, "id = ?", id).Error
}

func (r *CatalogRepository) ListRounds(ctx context.Context, activeOnly bool) ([]models.GiftRound, error) {
	var list []models.GiftRound
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) CountRoundReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Gift{}).Where("gift_round_id = ?", id).Count(&n).Error
	return n, err
}
