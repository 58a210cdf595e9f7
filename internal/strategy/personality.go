// Package strategy implements C5, the Strategy Selector: personality
// presets, context adjustment, and the round-phase decision table. Traits
// and the decision table are grounded one-for-one on the reference seller
// agent's personality module; values are carried through unchanged.
package strategy

import "iaros/negotiation_engine/internal/types"

// Traits is the immutable eight-dimension personality vector. Never mutate
// in place — AdjustForContext returns a new value.
type Traits struct {
	ConcessionWillingness float64
	FloorFlexibility      float64
	PressureSensitivity   float64
	RelationshipFocus     float64
	CompetitiveResponse   float64
	RiskTolerance         float64
	Patience              float64
	ValueEmphasis         float64
}

// Presets holds the seven named personality configurations, transcribed
// unchanged from the reference seller-agent personality module.
var Presets = map[types.PersonalityPreset]Traits{
	types.PersonalityAggressive:    {0.2, 0.1, 0.3, 0.2, 0.8, 0.7, 0.3, 0.3},
	types.PersonalityCooperative:   {0.7, 0.6, 0.7, 0.8, 0.5, 0.4, 0.7, 0.7},
	types.PersonalityStrategic:     {0.5, 0.4, 0.4, 0.9, 0.6, 0.5, 0.8, 0.8},
	types.PersonalityOpportunistic: {0.6, 0.7, 0.6, 0.4, 0.9, 0.8, 0.4, 0.5},
	types.PersonalityPremium:       {0.3, 0.2, 0.2, 0.6, 0.3, 0.3, 0.6, 0.9},
	types.PersonalityVolumeFocused: {0.8, 0.8, 0.8, 0.5, 0.9, 0.6, 0.3, 0.4},
	types.PersonalityRelationship:  {0.6, 0.5, 0.6, 1.0, 0.4, 0.4, 0.9, 0.8},
}

// Preset looks up a named personality, falling back to cooperative (the
// engine's configured default) for an unrecognized name.
func Preset(name types.PersonalityPreset) Traits {
	if t, ok := Presets[name]; ok {
		return t
	}
	return Presets[types.PersonalityCooperative]
}

// VendorContext is the situational state feeding context adjustment.
// Defaults mirror the reference implementation's dataclass defaults.
type VendorContext struct {
	CapacityUtilization float64
	InventoryLevel      float64
	QuarterPosition     float64
	YearPosition        float64
	PipelineStrength    float64
	RecentWinRate       float64
	CompetitivePressure float64
	MarketDemand        float64
}

// DefaultVendorContext returns the reference implementation's defaults.
func DefaultVendorContext() VendorContext {
	return VendorContext{
		CapacityUtilization: 0.7,
		InventoryLevel:      0.5,
		QuarterPosition:     0.5,
		YearPosition:        0.5,
		PipelineStrength:    0.6,
		RecentWinRate:       0.5,
		CompetitivePressure: 0.5,
		MarketDemand:        0.6,
	}
}

// UrgencyMultiplier blends quarter/year position and pipeline/capacity
// pressure into a single urgency signal.
func (c VendorContext) UrgencyMultiplier() float64 {
	quarterUrgency := c.QuarterPosition * c.QuarterPosition
	yearUrgency := c.YearPosition * c.YearPosition
	pipelineUrgency := 1.0 - c.PipelineStrength
	capacityUrgency := 1.0 - c.CapacityUtilization
	return quarterUrgency*0.3 + yearUrgency*0.2 + pipelineUrgency*0.3 + capacityUrgency*0.2
}

// PricingPressure blends inventory, demand, competition, and recent win
// rate into a single pricing-pressure signal.
func (c VendorContext) PricingPressure() float64 {
	inventoryPressure := c.InventoryLevel
	demandPressure := 1.0 - c.MarketDemand
	competitivePressure := c.CompetitivePressure
	winRatePressure := 1.0 - c.RecentWinRate
	return inventoryPressure*0.25 + demandPressure*0.3 + competitivePressure*0.3 + winRatePressure*0.15
}

// AdjustForContext raises context-sensitive traits by the situational
// urgency/pricing-pressure signals and lowers patience, per the reference
// implementation's adjust_traits_for_context. relationship_focus and
// value_emphasis are carried through unchanged.
func AdjustForContext(base Traits, ctx VendorContext) Traits {
	urgency := ctx.UrgencyMultiplier()
	pressure := ctx.PricingPressure()

	return Traits{
		ConcessionWillingness: minF(1.0, base.ConcessionWillingness+urgency*0.3+pressure*0.2),
		FloorFlexibility:      minF(1.0, base.FloorFlexibility+pressure*0.3),
		PressureSensitivity:   minF(1.0, base.PressureSensitivity+urgency*0.2),
		RelationshipFocus:     base.RelationshipFocus,
		CompetitiveResponse:   minF(1.0, base.CompetitiveResponse+ctx.CompetitivePressure*0.2),
		RiskTolerance:         minF(1.0, base.RiskTolerance+urgency*0.15),
		Patience:              maxF(0.0, base.Patience-urgency*0.3),
		ValueEmphasis:         base.ValueEmphasis,
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
