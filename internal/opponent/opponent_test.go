package opponent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/types"
)

func TestInit_FloorAndCeilingFromBasis(t *testing.T) {
	m := Init(decimal.NewFromInt(1000), nil)
	assert.True(t, m.PriceFloorEstimate.Equal(decimal.NewFromInt(800)))
	assert.True(t, m.PriceCeilingEstimate.Equal(decimal.NewFromInt(1100)))
}

func TestInit_LearningHintOverridesFloor(t *testing.T) {
	hint := decimal.NewFromInt(777)
	m := Init(decimal.NewFromInt(1000), &hint)
	assert.True(t, m.PriceFloorEstimate.Equal(hint))
}

func TestUpdate_StallIncrementsCounterAndLowersElasticity(t *testing.T) {
	m := Init(decimal.NewFromInt(1000), nil)
	prev := types.OfferComponents{UnitPrice: decimal.NewFromInt(1000), TermMonths: 12, Payment: types.NET30}
	observed := prev
	observed.UnitPrice = decimal.NewFromFloat(1000.5)

	Update(&m, &prev, observed)
	assert.Equal(t, 1, m.ConsecutiveNoPriceMoves)
	assert.InDelta(t, 0.4, m.PriceElasticity, 1e-9)
}

func TestUpdate_PriceMoveResetsStallAndRaisesFloorNeverLowers(t *testing.T) {
	m := Init(decimal.NewFromInt(1000), nil)
	initialFloor := m.PriceFloorEstimate

	prev := types.OfferComponents{UnitPrice: decimal.NewFromInt(1000)}
	observed := types.OfferComponents{UnitPrice: decimal.NewFromInt(900)}
	Update(&m, &prev, observed)

	assert.Equal(t, 0, m.ConsecutiveNoPriceMoves)
	assert.True(t, m.PriceFloorEstimate.GreaterThanOrEqual(initialFloor))

	// A further drop that would imply a lower floor must never decrease it.
	floorAfterFirst := m.PriceFloorEstimate
	prev2 := observed
	observed2 := types.OfferComponents{UnitPrice: decimal.NewFromInt(300)}
	Update(&m, &prev2, observed2)
	assert.True(t, m.PriceFloorEstimate.GreaterThanOrEqual(floorAfterFirst))
}

func TestUpdate_BoundedRingBufferOfThree(t *testing.T) {
	m := Init(decimal.NewFromInt(1000), nil)
	var prev *types.OfferComponents
	for i := 0; i < 5; i++ {
		o := types.OfferComponents{UnitPrice: decimal.NewFromInt(int64(1000 - i*10))}
		Update(&m, prev, o)
		oc := o
		prev = &oc
	}
	assert.Len(t, m.RecentOffers, 3)
}
