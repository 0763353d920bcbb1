package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartStore persists whole cart snapshots. Save overwrites; an empty snapshot clears.
type CartStore interface {
	Load(ctx context.Context, auth AuthState) ([]Line, error)
	Save(ctx context.Context, auth AuthState, lines []Line) error
	Clear(ctx context.Context, auth AuthState) error
}

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DurableStore keeps authenticated carts in cart_items.
type DurableStore struct {
	store txRunner
}

// NewDurableStore binds the store to the shared database client.
func NewDurableStore(store txRunner) (*DurableStore, error) {
	if store == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &DurableStore{store: store}, nil
}

// Load returns the user's lines in insertion order.
func (s *DurableStore) Load(ctx context.Context, auth AuthState) ([]Line, error) {
	var rows []models.CartItem
	err := s.store.DB().WithContext(ctx).
		Where("user_id = ?", auth.UserID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			ProductID:      row.ProductID,
			Size:           row.Size,
			Color:          row.Color,
			Name:           row.Name,
			Image:          row.Image,
			UnitPriceCents: row.UnitPriceCents,
			Quantity:       row.Quantity,
			AddedAt:        row.AddedAt,
		})
	}
	return lines, nil
}

// Save replaces the user's cart rows in one transaction.
func (s *DurableStore) Save(ctx context.Context, auth AuthState, lines []Line) error {
	return s.store.WithTx(ctx, func(tx *gorm.DB) error {
		return replaceRows(ctx, tx, auth.UserID, lines)
	})
}

// Clear deletes every line of the user's cart.
func (s *DurableStore) Clear(ctx context.Context, auth AuthState) error {
	return s.ClearInTx(ctx, s.store.DB(), auth.UserID)
}

// ClearInTx deletes the user's cart rows using the caller's transaction.
func (s *DurableStore) ClearInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func replaceRows(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lines []Line) error {
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartItem, 0, len(lines))
	for i, l := range lines {
		rows = append(rows, models.CartItem{
			ID:             uuid.New(),
			UserID:         userID,
			ProductID:      l.ProductID,
			Size:           l.Size,
			Color:          l.Color,
			Position:       i,
			Name:           l.Name,
			Image:          l.Image,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
			AddedAt:        l.AddedAt.UTC(),
		})
	}
	return tx.WithContext(ctx).Create(&rows).Error
}
