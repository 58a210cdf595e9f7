package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iaros/negotiation_engine/internal/types"
)

func zeroRateConstants() Constants {
	c := Default()
	c.DiscountRateAnnual = decimal.Zero
	return c
}

// S-TCO-A
func TestTCO_SimpleNoDiscount(t *testing.T) {
	c := zeroRateConstants()
	offer := types.OfferComponents{
		UnitPrice:  decimal.NewFromInt(180),
		Quantity:   200,
		TermMonths: 12,
		Payment:    types.NET30,
	}
	got := TCO(offer, c)
	want := decimal.NewFromInt(432000)
	require.True(t, got.Equal(want), "got %s want %s", got, want)
}

// S-TCO-B
func TestTCO_WithPrepayDiscount(t *testing.T) {
	c := zeroRateConstants()
	offer := types.OfferComponents{
		UnitPrice:  decimal.NewFromInt(300),
		Quantity:   10,
		TermMonths: 12,
		Payment:    types.NET15,
	}
	got := TCOWithAdjustment(offer, c, decimal.NewFromFloat(0.95))
	want := decimal.NewFromFloat(34029)
	diff := got.Sub(want).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "got %s want %s", got, want)
}

func TestTCO_MonotoneInQuantityAndTerm(t *testing.T) {
	c := Default()
	base := types.OfferComponents{UnitPrice: decimal.NewFromInt(100), Quantity: 10, TermMonths: 12, Payment: types.NET30}
	moreQty := base
	moreQty.Quantity = 20
	moreTerm := base
	moreTerm.TermMonths = 24

	baseTCO := TCO(base, c)
	assert.True(t, TCO(moreQty, c).GreaterThanOrEqual(baseTCO))
	assert.True(t, TCO(moreTerm, c).GreaterThanOrEqual(baseTCO))
}

func TestNormalize_PassThroughUnknownCadence(t *testing.T) {
	c := Default()
	amount := decimal.NewFromInt(1000)
	got := Normalize(amount, types.BillingCadence("unknown"), c)
	assert.True(t, got.Equal(amount))
}

func TestNormalize_Idempotent(t *testing.T) {
	c := Default()
	amount := decimal.NewFromInt(1200)
	once := Normalize(amount, types.CadencePerUnitPerYear, c)
	twice := Normalize(once, types.CadencePerUnitPerYear, c)
	assert.True(t, once.Equal(twice))
}

func TestPriceFitRatio_ClampedAtOneAndZero(t *testing.T) {
	assert.Equal(t, 1.0, PriceFitRatio(decimal.NewFromInt(200), decimal.NewFromInt(100)))
	assert.InDelta(t, 0.5, PriceFitRatio(decimal.NewFromInt(50), decimal.NewFromInt(100)), 1e-9)
	assert.Equal(t, float64(0), PriceFitRatio(decimal.NewFromInt(50), decimal.Zero))
}
