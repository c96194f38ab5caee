package repository

import (
	"context"
	"errors"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserStock, error) {
	var s models.UserStock
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepository) GetByUserAndVariety(ctx context.Context, userID, varietyID uuid.UUID) (*models.UserStock, error) {
	var s models.UserStock
	err := r.db.WithContext(ctx).Where("user_id = ? AND variety_id = ?", userID, varietyID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddOrIncrement adds qty to the (user, variety) row, creating it when missing. Notes
// are replaced, not merged.
func (r *StockRepository) AddOrIncrement(ctx context.Context, userID, varietyID uuid.UUID, qty int, notes string) (*models.UserStock, error) {
	s := &models.UserStock{UserID: userID, VarietyID: varietyID, Quantity: qty, Notes: notes}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "variety_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("user_stocks.quantity + EXCLUDED.quantity"),
				"notes":      gorm.Expr("EXCLUDED.notes"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		},
		clause.Returning{},
	).Create(s).Error
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StockRepository) Update(ctx context.Context, id uuid.UUID, qty int, notes string) error {
	res := r.db.WithContext(ctx).Model(&models.UserStock{}).Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": qty, "notes": notes})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.UserStock{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser returns the non-empty rows of a member with their variety.
func (r *StockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserStock, error) {
	var list []models.UserStock
	err := r.db.WithContext(ctx).Where("user_id = ? AND quantity > 0", userID).
		Preload("Variety").Order("created_at ASC").Find(&list).Error
	return list, err
}

// debit subtracts qty only when enough stock is present. It is the single place where
// stock goes down, so concurrent debits can never drive a row negative.
func debit(tx *gorm.DB, userID, varietyID uuid.UUID, qty int) error {
	res := tx.Model(&models.UserStock{}).
		Where("user_id = ? AND variety_id = ? AND quantity >= ?", userID, varietyID, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func credit(tx *gorm.DB, userID, varietyID uuid.UUID, qty int) error {
	s := &models.UserStock{UserID: userID, VarietyID: varietyID, Quantity: qty}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "variety_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("user_stocks.quantity + EXCLUDED.quantity"),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(s).Error
}
