// Package offergen implements C6, the Offer Generator: one pure function
// per strategy tag, grounded formula-for-formula on the reference seller
// agent's strategy engine, dispatched through a map rather than a
// big-switch — Go's idiomatic stand-in for the source's dynamic dispatch,
// per the engine's design note on strategy implementation.
package offergen

import (
	"fmt"

	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/strategy"
	"iaros/negotiation_engine/internal/types"
)

// Input bundles everything a generator needs. Floor is the hard boundary
// this side must not cross: the seller's price floor, or — when generating
// a buyer-side offer — the buyer's price ceiling. List is this side's
// opening reference price.
type Input struct {
	Own     types.OfferComponents
	Counter types.OfferComponents
	Floor   decimal.Decimal
	List    decimal.Decimal
	Traits  strategy.Traits
}

// Result is a generated counter-offer plus its human-readable rationale.
// Terminal is set only by WALK_AWAY.
type Result struct {
	Offer     types.OfferComponents
	Rationale string
	Terminal  bool
}

// GeneratorFunc is the closed-set dispatch signature every strategy implements.
type GeneratorFunc func(in Input) Result

// gap is own_price - counter_price. Concession formulas subtract a
// fraction of gap from the own price, which moves it toward the
// counterparty regardless of which side is higher — the same formula
// serves both buyer and seller generators.
func gap(in Input) decimal.Decimal {
	return in.Own.UnitPrice.Sub(in.Counter.UnitPrice)
}

func withPrice(offer types.OfferComponents, price decimal.Decimal) types.OfferComponents {
	offer.UnitPrice = price
	return offer
}

func anchorHigh(in Input) Result {
	price := in.List.Mul(decimal.NewFromFloat(1.05))
	return Result{Offer: withPrice(in.Own, price), Rationale: "opening anchor at a premium to list price"}
}

func valueJustification(in Input) Result {
	concession := gap(in).Mul(decimal.NewFromFloat(0.15))
	price := in.Own.UnitPrice.Sub(concession)
	offer := withPrice(in.Own, price)
	offer.TermMonths = maxInt(in.Own.TermMonths, in.Counter.TermMonths)
	return Result{Offer: offer, Rationale: "concession justified by added value and extended term"}
}

func competitiveMatch(in Input) Result {
	concession := gap(in).Mul(decimal.NewFromFloat(0.40))
	offer := withPrice(in.Own, in.Own.UnitPrice.Sub(concession))
	offer.TermMonths = in.Counter.TermMonths
	offer.Payment = in.Counter.Payment
	return Result{Offer: offer, Rationale: "matching counterparty's terms to stay competitive"}
}

func volumeIncentive(in Input) Result {
	ratio := 1.2
	if in.Own.Quantity > 0 {
		r := float64(in.Counter.Quantity) / float64(in.Own.Quantity)
		if r > ratio {
			ratio = r
		}
	}
	discountPct := minF((ratio-1)*0.5, 0.15)
	price := in.Own.UnitPrice.Mul(decimal.NewFromFloat(1 - discountPct))
	offer := withPrice(in.Own, price)
	offer.Quantity = int(float64(in.Own.Quantity) * ratio)
	return Result{Offer: offer, Rationale: "volume discount in exchange for a larger order"}
}

func termPremium(in Input) Result {
	ownTerm := in.Own.TermMonths
	if ownTerm < 12 {
		ownTerm = 12
	}
	ratio := float64(in.Counter.TermMonths) / float64(ownTerm)
	discountPct := minF((ratio-1)*0.08, 0.12)
	if discountPct < 0 {
		discountPct = 0
	}
	price := in.Own.UnitPrice.Mul(decimal.NewFromFloat(1 - discountPct))
	offer := withPrice(in.Own, price)
	offer.TermMonths = maxInt(in.Counter.TermMonths, 24)
	return Result{Offer: offer, Rationale: "discount in exchange for a longer committed term"}
}

func relationshipInvestment(in Input) Result {
	concession := gap(in).Mul(decimal.NewFromFloat(0.60))
	offer := withPrice(in.Own, in.Own.UnitPrice.Sub(concession))
	offer.TermMonths = maxInt(in.Counter.TermMonths, 24)
	offer.Payment = in.Counter.Payment
	return Result{Offer: offer, Rationale: "investing in the long-term relationship"}
}

func gradualConcession(in Input) Result {
	rate := in.Traits.ConcessionWillingness * 0.25
	concession := gap(in).Mul(decimal.NewFromFloat(rate))
	return Result{Offer: withPrice(in.Own, in.Own.UnitPrice.Sub(concession)), Rationale: "gradual concession toward agreement"}
}

func splitDifference(in Input) Result {
	midpoint := in.Own.UnitPrice.Add(in.Counter.UnitPrice).Div(decimal.NewFromInt(2))
	offer := withPrice(in.Own, midpoint)
	offer.TermMonths = in.Counter.TermMonths
	offer.Payment = in.Counter.Payment
	return Result{Offer: offer, Rationale: "splitting the difference to close the gap"}
}

func finalOffer(in Input) Result {
	fromFloor := in.Floor.Mul(decimal.NewFromFloat(1.02))
	fromCounter := in.Counter.UnitPrice.Mul(decimal.NewFromFloat(1.05))
	price := fromFloor
	if fromCounter.GreaterThan(price) {
		price = fromCounter
	}
	return Result{Offer: withPrice(in.Own, price), Rationale: "final offer, no further concessions"}
}

func holdFirm(in Input) Result {
	return Result{Offer: in.Own, Rationale: "holding firm — the offer already reflects its value"}
}

func conditionalDiscount(in Input) Result {
	concession := gap(in).Mul(decimal.NewFromFloat(0.30))
	offer := withPrice(in.Own, in.Own.UnitPrice.Sub(concession))
	offer.TermMonths = maxInt(offer.TermMonths, 24)
	offer.Payment = types.NET15
	return Result{Offer: offer, Rationale: "discount conditioned on a longer term and faster payment"}
}

func walkAway(in Input) Result {
	return Result{Offer: in.Own, Terminal: true, Rationale: "gap exceeds what either side can bridge"}
}

// scarcityLeverage and bundleUpsell are present in the reference strategy
// set but not reachable from the default decision table (see SPEC_FULL.md
// §4.6); kept wired and directly testable rather than deleted.
func scarcityLeverage(in Input) Result {
	concession := gap(in).Mul(decimal.NewFromFloat(0.05))
	offer := withPrice(in.Own, in.Own.UnitPrice.Sub(concession))
	return Result{Offer: offer, Rationale: "limited capacity remaining at this price point"}
}

func bundleUpsell(in Input) Result {
	offer := in.Own
	offer.ValueAdds = append(append([]types.ValueAdd{}, offer.ValueAdds...), types.ValueAdd{
		Name:  "bundled_onboarding_credit",
		Value: in.Own.UnitPrice.Mul(decimal.NewFromFloat(0.05)),
	})
	return Result{Offer: offer, Rationale: "bundling an additional credit instead of a price cut"}
}

// Generators is the closed dispatch table; adding a strategy means adding
// both a table entry in strategy.Select and an entry here.
var Generators = map[types.StrategyTag]GeneratorFunc{
	types.StrategyAnchorHigh:             anchorHigh,
	types.StrategyValueJustification:     valueJustification,
	types.StrategyCompetitiveMatch:       competitiveMatch,
	types.StrategyVolumeIncentive:        volumeIncentive,
	types.StrategyTermPremium:            termPremium,
	types.StrategyRelationshipInvestment: relationshipInvestment,
	types.StrategyGradualConcession:      gradualConcession,
	types.StrategySplitDifference:        splitDifference,
	types.StrategyFinalOffer:             finalOffer,
	types.StrategyHoldFirm:               holdFirm,
	types.StrategyConditionalDiscount:    conditionalDiscount,
	types.StrategyWalkAway:               walkAway,
	types.StrategyScarcityLeverage:       scarcityLeverage,
	types.StrategyBundleUpsell:           bundleUpsell,
}

// Generate dispatches to the generator registered for tag.
func Generate(tag types.StrategyTag, in Input) (Result, error) {
	fn, ok := Generators[tag]
	if !ok {
		return Result{}, fmt.Errorf("offergen: no generator registered for strategy %q", tag)
	}
	return fn(in), nil
}

// ClampToFloor pulls a seller-side offer's unit price up to the vendor's
// floor if a generator produced something below it, reporting whether a
// clamp was applied. Used by the round state machine after generation,
// satisfying C6's "clamp to nearest feasible point" contract.
func ClampToFloor(offer types.OfferComponents, floor decimal.Decimal) (types.OfferComponents, bool) {
	if offer.UnitPrice.LessThan(floor) {
		offer.UnitPrice = floor
		return offer, true
	}
	return offer, false
}

// ClampToCeiling pulls a buyer-side offer's unit price down to the buyer's
// ceiling if a generator overshot it.
func ClampToCeiling(offer types.OfferComponents, ceiling decimal.Decimal) (types.OfferComponents, bool) {
	if offer.UnitPrice.GreaterThan(ceiling) {
		offer.UnitPrice = ceiling
		return offer, true
	}
	return offer, false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
