package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Order is the immutable record produced by a successful placement. Only the
// status and the paid/delivered flags change afterwards.
type Order struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddress    types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;not null"`
	PaymentMethod      enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	ItemsPriceCents    int                   `gorm:"column:items_price_cents;not null"`
	TaxPriceCents      int                   `gorm:"column:tax_price_cents;not null"`
	ShippingPriceCents int                   `gorm:"column:shipping_price_cents;not null"`
	TotalPriceCents    int                   `gorm:"column:total_price_cents;not null"`
	Email              string                `gorm:"column:email;not null"`
	Phone              *string               `gorm:"column:phone"`
	FirstName          string                `gorm:"column:first_name;not null"`
	LastName           string                `gorm:"column:last_name;not null"`
	IsPaid             bool                  `gorm:"column:is_paid;not null;default:false"`
	PaidAt             *time.Time            `gorm:"column:paid_at"`
	IsDelivered        bool                  `gorm:"column:is_delivered;not null;default:false"`
	DeliveredAt        *time.Time            `gorm:"column:delivered_at"`
	Status             enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	CancelledAt        *time.Time            `gorm:"column:cancelled_at"`
	Items              []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
