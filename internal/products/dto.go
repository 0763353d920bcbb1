package products

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// SizeDTO is the public view of one size variant.
type SizeDTO struct {
	Size          string `json:"size"`
	InStock       bool   `json:"inStock"`
	StockQuantity int    `json:"stockQuantity"`
}

// ColorDTO is the public view of one color option.
type ColorDTO struct {
	ColorName  string `json:"colorName"`
	ColorValue string `json:"colorValue"`
}

// ProductDTO is the public product detail.
type ProductDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	Brand        *string    `json:"brand,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Image        *string    `json:"image,omitempty"`
	PriceCents   int        `json:"priceCents"`
	CountInStock int        `json:"countInStock"`
	Sizes        []SizeDTO  `json:"sizes"`
	Colors       []ColorDTO `json:"colors"`
}

// AvailabilityDTO answers an availability probe.
type AvailabilityDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size,omitempty"`
	Quantity  int       `json:"quantity"`
	Available bool      `json:"available"`
}

// NewProductDTO maps a product model with preloaded variants.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Image:        p.Image,
		PriceCents:   p.PriceCents,
		CountInStock: p.CountInStock,
		Sizes:        make([]SizeDTO, 0, len(p.Sizes)),
		Colors:       make([]ColorDTO, 0, len(p.Colors)),
	}
	for _, s := range p.Sizes {
		dto.Sizes = append(dto.Sizes, SizeDTO{Size: s.Size, InStock: s.InStock, StockQuantity: s.StockQuantity})
	}
	for _, c := range p.Colors {
		dto.Colors = append(dto.Colors, ColorDTO{ColorName: c.ColorName, ColorValue: c.ColorValue})
	}
	return dto
}
