package favorites

import (
	"time"

	"github.com/google/uuid"
)

// ProductSummary is the product projection shown next to a favorite.
type ProductSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	Image        *string   `json:"image,omitempty"`
	PriceCents   int       `json:"priceCents"`
	CountInStock int       `json:"countInStock"`
	Available    bool      `json:"available"`
}

// ItemDTO wraps the product summary included in a favorites row.
type ItemDTO struct {
	Product   ProductSummary `json:"product"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PageDTO returns a cursor-paginated favorites view.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	Total      int64     `json:"total"`
	NextCursor string    `json:"nextCursor,omitempty"`
}
