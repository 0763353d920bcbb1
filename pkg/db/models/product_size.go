package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSize is one stocked size variant of a product.
type ProductSize struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_sizes_product_size_key"`
	Size          string    `gorm:"column:size;not null;uniqueIndex:product_sizes_product_size_key"`
	Position      int       `gorm:"column:position;not null;default:0"`
	InStock       bool      `gorm:"column:in_stock;not null;default:false"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
