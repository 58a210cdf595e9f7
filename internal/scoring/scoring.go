// Package scoring implements C2, the Scoring Service: multi-criterion
// offer scores and the buyer/seller composite utilities C5/C7 read from.
// Depends only on C1 (pricing) and the data model.
package scoring

import (
	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/pricing"
	"iaros/negotiation_engine/internal/types"
)

// riskWeights maps a vendor's coarse risk banding to the normalized figure
// C2's risk dimension subtracts from 1.
var riskWeights = map[types.RiskLevel]float64{
	types.RiskLow:    0.1,
	types.RiskMedium: 0.4,
	types.RiskHigh:   0.8,
}

// paymentSpeedPreference ranks payment terms by how quickly the seller is
// paid, NET_15 = 1.0 down to NET_45 = 0.7 as specified; DEPOSIT and
// MILESTONES are not named in the source table and are ordered here by
// their natural cash-flow position (see DESIGN.md).
var paymentSpeedPreference = map[types.PaymentTerms]float64{
	types.Deposit:    1.0,
	types.NET15:      1.0,
	types.NET30:      0.85,
	types.NET45:      0.7,
	types.Milestones: 0.6,
}

// BuyerUtilityWeights are the default composite-utility weights for the
// buyer side: tco_fit, spec_match, compliance, risk, time.
type BuyerUtilityWeights struct {
	TCOFit     float64
	SpecMatch  float64
	Compliance float64
	Risk       float64
	Time       float64
}

// DefaultBuyerWeights returns the spec's default weighting (0.4/0.2/0.2/0.1/0.1).
func DefaultBuyerWeights() BuyerUtilityWeights {
	return BuyerUtilityWeights{TCOFit: 0.4, SpecMatch: 0.2, Compliance: 0.2, Risk: 0.1, Time: 0.1}
}

// SellerUtilityWeights are the default weights for the seller side:
// margin_fit, term_preference, payment_preference.
type SellerUtilityWeights struct {
	MarginFit         float64
	TermPreference    float64
	PaymentPreference float64
}

// DefaultSellerWeights returns the spec's default weighting (0.7/0.2/0.1).
func DefaultSellerWeights() SellerUtilityWeights {
	return SellerUtilityWeights{MarginFit: 0.7, TermPreference: 0.2, PaymentPreference: 0.1}
}

// SpecMatch is the fraction of request.MustHaves covered by the vendor's
// capability tags. In strict mode, any missing must-have collapses the
// score to zero rather than partial credit.
func SpecMatch(req types.Request, vendor types.VendorProfile, strict bool) float64 {
	if len(req.MustHaves) == 0 {
		return 1.0
	}
	have := make(map[string]bool, len(vendor.CapabilityTags))
	for _, t := range vendor.CapabilityTags {
		have[t] = true
	}
	covered := 0
	for _, must := range req.MustHaves {
		if have[must] {
			covered++
		} else if strict {
			return 0
		}
	}
	return float64(covered) / float64(len(req.MustHaves))
}

// ComplianceScore is 1.0 iff every required certification is present,
// 0.0 otherwise, with the blocking flag set on failure.
func ComplianceScore(req types.Request, vendor types.VendorProfile) (score float64, blocking bool) {
	held := make(map[string]bool, len(vendor.Certifications))
	for _, c := range vendor.Certifications {
		held[c] = true
	}
	for _, required := range req.ComplianceRequirements {
		if !held[required] {
			return 0.0, true
		}
	}
	return 1.0, false
}

// TCOFit is min(1, budget_max/tco).
func TCOFit(budgetMax, tco decimal.Decimal) float64 {
	if tco.IsZero() || tco.IsNegative() {
		return 1.0
	}
	ratio := budgetMax.Div(tco)
	f, _ := ratio.Float64()
	if f > 1.0 {
		return 1.0
	}
	if f < 0 {
		return 0
	}
	return f
}

// Risk is 1 minus the vendor's normalized risk level.
func Risk(vendor types.VendorProfile) float64 {
	w, ok := riskWeights[vendor.RiskLevel]
	if !ok {
		w = riskWeights[types.RiskMedium]
	}
	return 1 - w
}

// Time is 1 minus lead_time_days/90, clamped to [0,1].
func Time(vendor types.VendorProfile) float64 {
	ratio := float64(vendor.Reliability.LeadTimeDays) / 90.0
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return 1 - ratio
}

// MarginFit is the seller's margin position: 0 at floor, 1 at list.
func MarginFit(unitPrice, floor, listPrice decimal.Decimal) float64 {
	spread := listPrice.Sub(floor)
	if spread.IsZero() || spread.IsNegative() {
		return 1.0
	}
	f, _ := unitPrice.Sub(floor).Div(spread).Float64()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// TermPreference is min(1, term_months/36).
func TermPreference(termMonths int) float64 {
	f := float64(termMonths) / 36.0
	if f > 1 {
		return 1
	}
	return f
}

// PaymentPreference looks up the seller's cash-flow preference for the
// given payment terms.
func PaymentPreference(terms types.PaymentTerms) float64 {
	if v, ok := paymentSpeedPreference[terms]; ok {
		return v
	}
	return 0.7
}

// ScoreOffer computes C2's full metric bundle for one (vendor, offer,
// request) triple — the pure function exposed as the engine's score_offer
// external interface.
func ScoreOffer(offer types.OfferComponents, vendor types.VendorProfile, req types.Request, c pricing.Constants, strictSpecMatch bool) types.OfferScore {
	tco := pricing.TCO(offer, c)
	spec := SpecMatch(req, vendor, strictSpecMatch)
	compliance, blocking := ComplianceScore(req, vendor)
	tcoFit := TCOFit(req.BudgetMaxAnnual, tco)
	risk := Risk(vendor)
	time := Time(vendor)

	weights := DefaultBuyerWeights()
	utility := weights.TCOFit*tcoFit + weights.SpecMatch*spec + weights.Compliance*compliance + weights.Risk*risk + weights.Time*time

	return types.OfferScore{
		SpecMatch:  spec,
		Compliance: compliance,
		TCOFit:     tcoFit,
		Risk:       risk,
		Time:       time,
		Utility:    utility,
		TCO:        tco,
		Blocking:   blocking,
	}
}

// SellerUtility computes the seller-side composite utility for an offer
// against its own vendor profile.
func SellerUtility(offer types.OfferComponents, vendor types.VendorProfile) float64 {
	listPrice := vendor.ListPrice(offer.Quantity)
	margin := MarginFit(offer.UnitPrice, vendor.Guardrails.PriceFloor, listPrice)
	term := TermPreference(offer.TermMonths)
	payment := PaymentPreference(offer.Payment)

	w := DefaultSellerWeights()
	return w.MarginFit*margin + w.TermPreference*term + w.PaymentPreference*payment
}

// Sensitivity reports the linear utility change for a +-10% perturbation of
// each buyer-side score dimension. The report is returned to the caller
// and never fed back into the score itself.
func Sensitivity(score types.OfferScore) []types.SensitivityRow {
	w := DefaultBuyerWeights()
	dims := []struct {
		name  string
		value float64
		weight float64
	}{
		{"tco_fit", score.TCOFit, w.TCOFit},
		{"spec_match", score.SpecMatch, w.SpecMatch},
		{"compliance", score.Compliance, w.Compliance},
		{"risk", score.Risk, w.Risk},
		{"time", score.Time, w.Time},
	}
	rows := make([]types.SensitivityRow, 0, len(dims))
	for _, d := range dims {
		plus := d.weight * (d.value*1.1 - d.value)
		minus := d.weight * (d.value*0.9 - d.value)
		rows = append(rows, types.SensitivityRow{Dimension: d.name, DeltaPlus10: plus, DeltaMinus10: minus})
	}
	return rows
}
