package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Sized products track stock per ProductSize and
// keep CountInStock as a derived aggregate; sizeless products stock CountInStock directly.
type Product struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	SKU          string         `gorm:"column:sku;not null;uniqueIndex"`
	Brand        *string        `gorm:"column:brand"`
	Category     *string        `gorm:"column:category"`
	Description  *string        `gorm:"column:description"`
	Image        *string        `gorm:"column:image"`
	PriceCents   int            `gorm:"column:price_cents;not null"`
	CountInStock int            `gorm:"column:count_in_stock;not null;default:0"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	Sizes        []ProductSize  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Colors       []ProductColor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasSizes reports whether the product declares size variants.
func (p *Product) HasSizes() bool {
	return p != nil && len(p.Sizes) > 0
}

// FindSize returns the size entry matching name, if declared.
func (p *Product) FindSize(name string) (*ProductSize, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Sizes {
		if p.Sizes[i].Size == name {
			return &p.Sizes[i], true
		}
	}
	return nil, false
}

// HasColor reports whether the product declares the named color.
func (p *Product) HasColor(name string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Colors {
		if c.ColorName == name {
			return true
		}
	}
	return false
}
