package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/types"
)

func TestAdjustForContext_RaisesUrgencyTraitsLowersPatience(t *testing.T) {
	base := Preset(types.PersonalityCooperative)
	ctx := VendorContext{
		QuarterPosition: 1.0, YearPosition: 1.0,
		PipelineStrength: 0.0, CapacityUtilization: 0.0,
		CompetitivePressure: 0.8, MarketDemand: 0.2, InventoryLevel: 0.8, RecentWinRate: 0.2,
	}
	adjusted := AdjustForContext(base, ctx)

	assert.Greater(t, adjusted.ConcessionWillingness, base.ConcessionWillingness)
	assert.Less(t, adjusted.Patience, base.Patience)
	assert.Equal(t, base.RelationshipFocus, adjusted.RelationshipFocus)
	assert.Equal(t, base.ValueEmphasis, adjusted.ValueEmphasis)
	assert.LessOrEqual(t, adjusted.ConcessionWillingness, 1.0)
}

func TestSelect_EarlyRoundHighValueEmphasisPicksValueJustification(t *testing.T) {
	traits := Traits{ValueEmphasis: 0.9}
	got := Select(DecisionContext{Round: 1, TotalRounds: 8, Traits: traits})
	assert.Equal(t, types.StrategyValueJustification, got)
}

func TestSelect_EarlyRoundDefaultAnchorsHigh(t *testing.T) {
	got := Select(DecisionContext{Round: 1, TotalRounds: 8, Traits: Traits{}})
	assert.Equal(t, types.StrategyAnchorHigh, got)
}

func TestSelect_LateRoundNarrowGapPicksFinalOffer(t *testing.T) {
	got := Select(DecisionContext{Round: 7, TotalRounds: 8, PriceGap: 0.05, Traits: Traits{}})
	assert.Equal(t, types.StrategyFinalOffer, got)
}

func TestSelect_LateRoundWideGapLowPatienceWalksAway(t *testing.T) {
	got := Select(DecisionContext{Round: 7, TotalRounds: 8, PriceGap: 0.35, Traits: Traits{Patience: 0.1}})
	assert.Equal(t, types.StrategyWalkAway, got)
}

func TestSelect_MidRoundLowFloorFlexibilityNarrowGapPicksTermPremium(t *testing.T) {
	got := Select(DecisionContext{Round: 4, TotalRounds: 8, PriceGap: 0.10, Traits: Traits{FloorFlexibility: 0.1}})
	assert.Equal(t, types.StrategyTermPremium, got)
}

func TestPhase_Boundaries(t *testing.T) {
	assert.Equal(t, PhaseEarly, Phase(1, 8))
	assert.Equal(t, PhaseEarly, Phase(2, 8))
	assert.Equal(t, PhaseMid, Phase(3, 8))
	assert.Equal(t, PhaseLate, Phase(7, 8))
	assert.Equal(t, PhaseLate, Phase(8, 8))
}
