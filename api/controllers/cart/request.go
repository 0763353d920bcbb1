package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
)

type lineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity,omitempty" validate:"gte=0,lte=1000"`
}

func (l lineRequest) toInput() cartsvc.LineInput {
	return cartsvc.LineInput{
		ProductID: l.ProductID,
		Size:      l.Size,
		Color:     l.Color,
		Quantity:  l.Quantity,
	}
}

func (l lineRequest) key() cartsvc.LineKey {
	return cartsvc.NewLineKey(l.ProductID, l.Size, l.Color)
}

type updateQuantityRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  *int      `json:"quantity" validate:"required,lte=1000"`
}

// Lines are revalidated by the service, so individual entries are not rejected here.
// Oversized quantities are clamped to stock there.
type replaceCartRequest struct {
	Cart []lineRequest `json:"cart"`
}

func (r replaceCartRequest) toInputs() []cartsvc.LineInput {
	out := make([]cartsvc.LineInput, 0, len(r.Cart))
	for _, l := range r.Cart {
		out = append(out, l.toInput())
	}
	return out
}
