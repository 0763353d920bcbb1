// Package pricing turns priced cart lines into totals. Every function is pure.
package pricing

import (
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/shopspring/decimal"
)

// Line is the minimal priced input: a unit price in cents and a quantity.
type Line struct {
	UnitPriceCents int
	Quantity       int
}

// Policy is the storewide shipping and tax configuration.
type Policy struct {
	FreeShippingThresholdCents int
	FlatShippingFeeCents       int
	TaxRate                    decimal.Decimal
}

// Totals is the tax-free summary shown while a cart is being edited.
type Totals struct {
	ItemCount     int `json:"itemCount"`
	SubtotalCents int `json:"subtotalCents"`
	ShippingCents int `json:"shippingCents"`
	TotalCents    int `json:"totalCents"`
}

// Summary is the full price breakdown committed on an order.
// TotalPrice always equals ItemsPrice + TaxPrice + ShippingPrice.
type Summary struct {
	ItemsPrice    int `json:"itemsPrice"`
	TaxPrice      int `json:"taxPrice"`
	ShippingPrice int `json:"shippingPrice"`
	TotalPrice    int `json:"totalPrice"`
}

// DefaultPolicy returns the store defaults: free shipping from 5000 cents, a 500
// cent flat fee below that, and 10% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThresholdCents: 5000,
		FlatShippingFeeCents:       500,
		TaxRate:                    decimal.RequireFromString("0.10"),
	}
}

// PolicyFromConfig builds a policy from validated configuration.
func PolicyFromConfig(cfg config.PricingConfig) (Policy, error) {
	rate, err := cfg.ParsedTaxRate()
	if err != nil {
		return Policy{}, err
	}
	if cfg.FreeShippingThresholdCents < 0 || cfg.FlatShippingFeeCents < 0 {
		return Policy{}, fmt.Errorf("pricing amounts must be non-negative")
	}
	return Policy{
		FreeShippingThresholdCents: cfg.FreeShippingThresholdCents,
		FlatShippingFeeCents:       cfg.FlatShippingFeeCents,
		TaxRate:                    rate,
	}, nil
}

// Subtotal sums price times quantity over lines.
func Subtotal(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.UnitPriceCents * l.Quantity
	}
	return total
}

// Shipping returns the fee owed for a subtotal: zero exactly when the subtotal
// reaches the free shipping threshold.
func (p Policy) Shipping(subtotal int) int {
	if subtotal >= p.FreeShippingThresholdCents {
		return 0
	}
	return p.FlatShippingFeeCents
}

// Tax rounds subtotal*rate half away from zero to whole cents.
func (p Policy) Tax(subtotal int) int {
	return int(decimal.NewFromInt(int64(subtotal)).Mul(p.TaxRate).Round(0).IntPart())
}

// ComputeTotals returns item count, subtotal, shipping and a tax-free total.
func (p Policy) ComputeTotals(lines []Line) Totals {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	subtotal := Subtotal(lines)
	shipping := p.Shipping(subtotal)
	return Totals{
		ItemCount:     count,
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TotalCents:    subtotal + shipping,
	}
}

// Quote returns the taxed breakdown used by both the cart preview and order placement.
func (p Policy) Quote(lines []Line) Summary {
	items := Subtotal(lines)
	tax := p.Tax(items)
	shipping := p.Shipping(items)
	return Summary{
		ItemsPrice:    items,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    items + tax + shipping,
	}
}
