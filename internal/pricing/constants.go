package pricing

import "github.com/shopspring/decimal"

// Constants bundles the engine's pricing knobs, eliminating hardcoded
// literals scattered through C1/C2/C6, in the style of the platform's
// shared pricing-constants module.
type Constants struct {
	CadenceFactors          map[string]decimal.Decimal
	PaymentTermMultipliers  map[string]decimal.Decimal
	DiscountRateAnnual      decimal.Decimal
}

// Default returns the engine's production pricing constants.
func Default() Constants {
	return Constants{
		CadenceFactors: map[string]decimal.Decimal{
			"per_seat_per_year":  decimal.NewFromFloat(1.0),
			"per_unit_per_year":  decimal.NewFromFloat(1.0),
			"per_seat_per_month": decimal.NewFromFloat(12.0),
			"per_unit_per_month": decimal.NewFromFloat(12.0),
		},
		PaymentTermMultipliers: map[string]decimal.Decimal{
			"NET_15":     decimal.NewFromFloat(0.995),
			"NET_30":     decimal.NewFromFloat(1.000),
			"NET_45":     decimal.NewFromFloat(1.015),
			"MILESTONES": decimal.NewFromFloat(0.990),
			"DEPOSIT":    decimal.NewFromFloat(0.985),
		},
		DiscountRateAnnual: decimal.NewFromFloat(0.05),
	}
}
