package pricing

import (
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsShippingBoundary(t *testing.T) {
	t.Parallel()
	policy := DefaultPolicy()

	below := policy.ComputeTotals([]Line{{UnitPriceCents: 1500, Quantity: 3}})
	assert.Equal(t, Totals{ItemCount: 3, SubtotalCents: 4500, ShippingCents: 500, TotalCents: 5000}, below)

	at := policy.ComputeTotals([]Line{{UnitPriceCents: 2500, Quantity: 2}})
	assert.Equal(t, Totals{ItemCount: 2, SubtotalCents: 5000, ShippingCents: 0, TotalCents: 5000}, at)

	empty := policy.ComputeTotals(nil)
	assert.Equal(t, Totals{ShippingCents: 500, TotalCents: 500}, empty)
}

func TestQuoteTotalsAddUp(t *testing.T) {
	t.Parallel()
	policy := DefaultPolicy()

	cases := [][]Line{
		{{UnitPriceCents: 1500, Quantity: 3}},
		{{UnitPriceCents: 2500, Quantity: 2}},
		{{UnitPriceCents: 999, Quantity: 1}, {UnitPriceCents: 1, Quantity: 7}},
		{{UnitPriceCents: 12345, Quantity: 4}},
	}
	for _, lines := range cases {
		s := policy.Quote(lines)
		assert.Equal(t, s.ItemsPrice+s.TaxPrice+s.ShippingPrice, s.TotalPrice)
		assert.Equal(t, Subtotal(lines), s.ItemsPrice)
	}

	s := policy.Quote([]Line{{UnitPriceCents: 1500, Quantity: 3}})
	assert.Equal(t, Summary{ItemsPrice: 4500, TaxPrice: 450, ShippingPrice: 500, TotalPrice: 5450}, s)
}

func TestTaxRoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()
	policy := Policy{TaxRate: decimal.RequireFromString("0.10")}

	assert.Equal(t, 1, policy.Tax(5))  // 0.5 rounds up
	assert.Equal(t, 0, policy.Tax(4))  // 0.4 rounds down
	assert.Equal(t, 100, policy.Tax(995))
	assert.Equal(t, 0, Policy{TaxRate: decimal.Zero}.Tax(1000))
}

func TestPolicyFromConfig(t *testing.T) {
	t.Parallel()

	policy, err := PolicyFromConfig(config.PricingConfig{FreeShippingThresholdCents: 10000, FlatShippingFeeCents: 799, TaxRate: "0.0825"})
	require.NoError(t, err)
	assert.Equal(t, 10000, policy.FreeShippingThresholdCents)
	assert.True(t, policy.TaxRate.Equal(decimal.RequireFromString("0.0825")))

	_, err = PolicyFromConfig(config.PricingConfig{TaxRate: "abc"})
	require.Error(t, err)
}
