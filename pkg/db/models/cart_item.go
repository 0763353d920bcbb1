package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one persisted line of an authenticated user's cart. An empty
// Size or Color means the line has no such variant.
type CartItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_items_line_key"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_line_key"`
	Size           string    `gorm:"column:size;not null;default:'';uniqueIndex:cart_items_line_key"`
	Color          string    `gorm:"column:color;not null;default:'';uniqueIndex:cart_items_line_key"`
	Position       int       `gorm:"column:position;not null;default:0"`
	Name           string    `gorm:"column:name;not null"`
	Image          *string   `gorm:"column:image"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	AddedAt        time.Time `gorm:"column:added_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
