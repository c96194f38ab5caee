package service

import (
	"context"
	"strings"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type StockStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserStock, error)
	AddOrIncrement(ctx context.Context, userID, varietyID uuid.UUID, qty int, notes string) (*models.UserStock, error)
	Update(ctx context.Context, id uuid.UUID, qty int, notes string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserStock, error)
}

type VarietyGetter interface {
	GetVariety(ctx context.Context, id uuid.UUID) (*models.Variety, error)
}

// InventoryService is the per-member seedling ledger.
type InventoryService struct {
	stocks    StockStore
	varieties VarietyGetter
	log       *logrus.Entry
}

func NewInventoryService(stocks StockStore, varieties VarietyGetter) *InventoryService {
	return &InventoryService{stocks: stocks, varieties: varieties, log: logging.For("inventory")}
}

// AddOrIncrementStock adds qty to the member's row for the variety, creating it if
// needed. The notes replace whatever was stored before.
func (s *InventoryService) AddOrIncrementStock(ctx context.Context, userID, varietyID uuid.UUID, qty int, notes string) (*models.UserStock, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	v, err := s.varieties.GetVariety(ctx, varietyID)
	if err != nil {
		return nil, found(err, "variety")
	}
	if !v.IsActive {
		return nil, ErrInactive
	}
	st, err := s.stocks.AddOrIncrement(ctx, userID, varietyID, qty, strings.TrimSpace(notes))
	if err != nil {
		return nil, err
	}
	st.Variety = v
	s.log.WithFields(logrus.Fields{"user_id": userID, "variety_id": varietyID, "added": qty, "quantity": st.Quantity}).Debug("stock added")
	return st, nil
}

// UpdateStock overwrites quantity and notes. Negative quantities are refused here and
// by the column check.
func (s *InventoryService) UpdateStock(ctx context.Context, actor domain.Actor, stockID uuid.UUID, qty int, notes string) (*models.UserStock, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	st, err := s.owned(ctx, actor, stockID)
	if err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if err := s.stocks.Update(ctx, stockID, qty, notes); err != nil {
		return nil, found(err, "stock")
	}
	st.Quantity = qty
	st.Notes = notes
	return st, nil
}

func (s *InventoryService) DeleteStock(ctx context.Context, actor domain.Actor, stockID uuid.UUID) error {
	if _, err := s.owned(ctx, actor, stockID); err != nil {
		return err
	}
	return found(s.stocks.Delete(ctx, stockID), "stock")
}

// ListStock returns the member's non-empty rows with their variety.
func (s *InventoryService) ListStock(ctx context.Context, userID uuid.UUID) ([]models.UserStock, error) {
	return s.stocks.ListByUser(ctx, userID)
}

func (s *InventoryService) owned(ctx context.Context, actor domain.Actor, stockID uuid.UUID) (*models.UserStock, error) {
	st, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		return nil, found(err, "stock")
	}
	if st.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return st, nil
}
