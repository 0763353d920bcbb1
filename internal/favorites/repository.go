package favorites

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Add inserts a favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID, at time.Time) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.DB(ctx).
		Exec(`INSERT INTO favorite_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			uuid.New(), userID, productID, at).
		Error
}

// Remove deletes the user-product pair if it exists.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.FavoriteItem{}).
		Error
}

// Clear deletes every favorite of the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.FavoriteItem{}).
		Error
}

// Count returns how many favorites the user has.
func (r *Repository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.FavoriteItem{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}

// List returns one cursor page of favorites joined with their product summary,
// newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, decoded *pagination.Cursor, limit int) ([]ItemDTO, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)

	query := r.DB(ctx).
		Table("favorite_items fi").
		Select(strings.Join([]string{
			"fi.id AS favorite_id",
			"fi.created_at AS favorited_at",
			"p.id AS product_id",
			"p.name",
			"p.sku",
			"p.image",
			"p.price_cents",
			"p.count_in_stock",
			"p.is_active",
		}, ", ")).
		Joins("JOIN products p ON p.id = fi.product_id").
		Where("fi.user_id = ?", userID)
	if decoded != nil {
		query = query.Where("(fi.created_at < ?) OR (fi.created_at = ? AND fi.id < ?)",
			decoded.CreatedAt.UTC(), decoded.CreatedAt.UTC(), decoded.ID)
	}

	var records []favoriteRecord
	err := query.
		Order("fi.created_at DESC").
		Order("fi.id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Scan(&records).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.FavoritedAt, ID: last.FavoriteID})
	}

	items := make([]ItemDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toDTO())
	}
	return items, next, nil
}

type favoriteRecord struct {
	FavoriteID   uuid.UUID      `gorm:"column:favorite_id"`
	FavoritedAt  time.Time      `gorm:"column:favorited_at"`
	ProductID    uuid.UUID      `gorm:"column:product_id"`
	Name         string         `gorm:"column:name"`
	SKU          string         `gorm:"column:sku"`
	Image        sql.NullString `gorm:"column:image"`
	PriceCents   int            `gorm:"column:price_cents"`
	CountInStock int            `gorm:"column:count_in_stock"`
	IsActive     bool           `gorm:"column:is_active"`
}

func (r favoriteRecord) toDTO() ItemDTO {
	var image *string
	if r.Image.Valid {
		v := r.Image.String
		image = &v
	}
	return ItemDTO{
		Product: ProductSummary{
			ID:           r.ProductID,
			Name:         r.Name,
			SKU:          r.SKU,
			Image:        image,
			PriceCents:   r.PriceCents,
			CountInStock: r.CountInStock,
			Available:    r.IsActive && r.CountInStock > 0,
		},
		CreatedAt: r.FavoritedAt,
	}
}
