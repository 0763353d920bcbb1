package orders

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/validators"
	internalorders "github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

const (
	maxNameLen    = 100
	maxEmailLen   = 254
	maxVariantLen = 50
)

// Prices sent by clients are accepted for compatibility and ignored.
type orderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity" validate:"lte=1000"`
	Price     *float64  `json:"price,omitempty"`
}

type placeOrderRequest struct {
	OrderItems      []orderItemRequest    `json:"orderItems" validate:"dive"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Email           string                `json:"email"`
	Phone           *string               `json:"phone,omitempty"`
	FirstName       string                `json:"firstName"`
	LastName        string                `json:"lastName"`
}

func (p placeOrderRequest) toInput() internalorders.PlaceOrderInput {
	items := make([]internalorders.ItemInput, 0, len(p.OrderItems))
	for _, item := range p.OrderItems {
		items = append(items, internalorders.ItemInput{
			ProductID: item.ProductID,
			Size:      validators.SanitizeString(item.Size, maxVariantLen),
			Color:     validators.SanitizeString(item.Color, maxVariantLen),
			Quantity:  item.Quantity,
		})
	}
	return internalorders.PlaceOrderInput{
		Items:           items,
		ShippingAddress: p.ShippingAddress,
		PaymentMethod:   p.PaymentMethod,
		Email:           validators.SanitizeString(p.Email, maxEmailLen),
		Phone:           p.Phone,
		FirstName:       validators.SanitizeString(p.FirstName, maxNameLen),
		LastName:        validators.SanitizeString(p.LastName, maxNameLen),
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,nonblank"`
}
