package models

import "github.com/google/uuid"

// ProductColor is a purely descriptive color option; colors carry no stock.
type ProductColor struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Position   int       `gorm:"column:position;not null;default:0"`
	ColorName  string    `gorm:"column:color_name;not null"`
	ColorValue string    `gorm:"column:color_value;not null"`
}
