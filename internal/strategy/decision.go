package strategy

import "iaros/negotiation_engine/internal/types"

// RoundPhase buckets a round number against the expected total.
type RoundPhase string

const (
	PhaseEarly RoundPhase = "early"
	PhaseMid   RoundPhase = "mid"
	PhaseLate  RoundPhase = "late"
)

// Phase classifies round against totalRounds: early (r<=2), late (the last
// two rounds), mid otherwise.
func Phase(round, totalRounds int) RoundPhase {
	if round <= 2 {
		return PhaseEarly
	}
	if round >= totalRounds-1 {
		return PhaseLate
	}
	return PhaseMid
}

// DecisionContext bundles everything the decision table reads. PriceGap is
// (counterparty_price - own_target)/own_target — it may be negative; the
// table only ever tests its magnitude.
type DecisionContext struct {
	Round          int
	TotalRounds    int
	PriceGap       float64
	DealImportance float64
	Traits         Traits
	VendorCtx      VendorContext
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Select applies the round-phase decision table. It is symmetric for buyer
// and seller: callers supply PriceGap and Traits from their own side's
// perspective ("floor" becomes the buyer's ceiling on the buyer side).
func Select(ctx DecisionContext) types.StrategyTag {
	gap := absF(ctx.PriceGap)
	t := ctx.Traits

	switch Phase(ctx.Round, ctx.TotalRounds) {
	case PhaseEarly:
		switch {
		case t.ValueEmphasis > 0.7:
			return types.StrategyValueJustification
		case t.CompetitiveResponse > 0.7:
			return types.StrategyCompetitiveMatch
		default:
			return types.StrategyAnchorHigh
		}

	case PhaseMid:
		switch {
		// Supplemental rule, not in the distilled decision table: a vendor
		// with little floor flexibility and a gap already inside 15% is
		// better served locking in term length than chasing price.
		case t.FloorFlexibility < 0.3 && gap < 0.15:
			return types.StrategyTermPremium
		case ctx.VendorCtx.CompetitivePressure > 0.7 && t.ConcessionWillingness > 0.6:
			return types.StrategyVolumeIncentive
		case gap > 0.20 && t.RelationshipFocus > 0.7:
			return types.StrategyRelationshipInvestment
		case gap > 0.20 && t.ValueEmphasis > 0.6:
			return types.StrategyValueJustification
		case gap > 0.20:
			return types.StrategyGradualConcession
		case t.ConcessionWillingness > 0.6:
			return types.StrategySplitDifference
		default:
			return types.StrategyConditionalDiscount
		}

	default: // late
		switch {
		case gap < 0.10 && ctx.DealImportance > 0.7:
			return types.StrategySplitDifference
		case gap < 0.10:
			return types.StrategyFinalOffer
		case gap > 0.30 && t.Patience < 0.3:
			return types.StrategyWalkAway
		case gap > 0.30:
			return types.StrategyHoldFirm
		case t.ConcessionWillingness > 0.5:
			return types.StrategyFinalOffer
		default:
			return types.StrategyHoldFirm
		}
	}
}
