package cart

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// AuthState identifies whose cart an operation targets. A non-nil UserID selects
// the durable cart; otherwise GuestToken selects the ephemeral guest cart.
type AuthState struct {
	UserID     uuid.UUID
	GuestToken string
}

// IsGuest reports whether the ephemeral store backs this cart.
func (a AuthState) IsGuest() bool {
	return a.UserID == uuid.Nil
}

func (a AuthState) validate() error {
	if !a.IsGuest() {
		return nil
	}
	if _, err := uuid.Parse(strings.TrimSpace(a.GuestToken)); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid guest token is required")
	}
	return nil
}

// LineKey identifies a cart line. Empty Size or Color means the variant is not set.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// NewLineKey trims the variant names.
func NewLineKey(productID uuid.UUID, size, color string) LineKey {
	return LineKey{ProductID: productID, Size: strings.TrimSpace(size), Color: strings.TrimSpace(color)}
}

// Line is one cart entry. UnitPriceCents is captured when the line is first added.
type Line struct {
	ProductID      uuid.UUID `json:"productId"`
	Size           string    `json:"size,omitempty"`
	Color          string    `json:"color,omitempty"`
	Name           string    `json:"name"`
	Image          *string   `json:"image,omitempty"`
	UnitPriceCents int       `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	MaxQuantity    int       `json:"maxQuantity"`
	AddedAt        time.Time `json:"addedAt"`
}

// Key returns the identity of the line.
func (l Line) Key() LineKey {
	return NewLineKey(l.ProductID, l.Size, l.Color)
}

// LineInput is a client supplied line for add, replace and checkout payloads.
type LineInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// Drop reasons reported when a replaced or merged line cannot be kept.
const (
	DropProductUnavailable = "product_unavailable"
	DropSizeRequired       = "size_required"
	DropInvalidSize        = "invalid_size"
	DropInvalidColor       = "invalid_color"
	DropInvalidQuantity    = "invalid_quantity"
	DropOutOfStock         = "out_of_stock"
)

// DroppedLine reports a line that was removed during revalidation.
type DroppedLine struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
}

// View is the cart returned to callers.
type View struct {
	Lines   []Line          `json:"lines"`
	Totals  pricing.Totals  `json:"totals"`
	Quote   pricing.Summary `json:"quote"`
	Dropped []DroppedLine   `json:"dropped,omitempty"`
}

// TotalItemCount sums quantities across lines.
func (v *View) TotalItemCount() int {
	n := 0
	for _, l := range v.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice sums price times quantity across lines.
func (v *View) TotalPrice() int {
	return pricing.Subtotal(pricingLines(v.Lines))
}

func pricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.Line{UnitPriceCents: l.UnitPriceCents, Quantity: l.Quantity})
	}
	return out
}

func findLine(lines []Line, key LineKey) int {
	for i := range lines {
		if lines[i].Key() == key {
			return i
		}
	}
	return -1
}
