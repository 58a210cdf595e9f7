// Package pricing implements C1, the Pricing & TCO Calculator: cadence
// normalization and total-cost-of-ownership arithmetic. Pure functions over
// decimal.Decimal, no I/O, no logger — kept trivially property-testable.
package pricing

import (
	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/types"
)

// Normalize converts an amount quoted in the given cadence to its annual
// equivalent. An unrecognized cadence is a pass-through, per C1's contract.
func Normalize(amount decimal.Decimal, cadence types.BillingCadence, c Constants) decimal.Decimal {
	factor, ok := c.CadenceFactors[string(cadence)]
	if !ok {
		return amount
	}
	return amount.Mul(factor)
}

// PriceFitRatio is the scoring input min(1, budget_unit_annual/list_price_annual),
// floored at zero.
func PriceFitRatio(budgetUnitAnnual, listPriceAnnual decimal.Decimal) float64 {
	if listPriceAnnual.IsZero() || listPriceAnnual.IsNegative() {
		return 0
	}
	ratio := budgetUnitAnnual.Div(listPriceAnnual)
	f, _ := ratio.Float64()
	if f > 1.0 {
		return 1.0
	}
	if f < 0 {
		return 0
	}
	return f
}

// TCO computes total cost of ownership for an offer: base = unit_price *
// quantity * term_months, adjusted by the payment-term multiplier, then
// present-valued month by month at the configured annual discount rate.
func TCO(offer types.OfferComponents, c Constants) decimal.Decimal {
	return TCOWithAdjustment(offer, c, decimal.NewFromInt(1))
}

// TCOWithAdjustment is TCO with an additional one-time multiplicative
// adjustment applied to the payment-term-adjusted base before present
// valuing — used for negotiated extras (e.g. a prepay discount) that are
// not otherwise represented on OfferComponents.
func TCOWithAdjustment(offer types.OfferComponents, c Constants, extraMultiplier decimal.Decimal) decimal.Decimal {
	if offer.TermMonths <= 0 {
		return decimal.Zero
	}
	base := offer.UnitPrice.
		Mul(decimal.NewFromInt(int64(offer.Quantity))).
		Mul(decimal.NewFromInt(int64(offer.TermMonths)))

	mult, ok := c.PaymentTermMultipliers[string(offer.Payment)]
	if !ok {
		mult = decimal.NewFromInt(1)
	}
	adjusted := base.Mul(mult).Mul(extraMultiplier)

	return presentValueMonthly(adjusted, offer.TermMonths, c.DiscountRateAnnual)
}

// presentValueMonthly spreads `adjusted` evenly over `months` and discounts
// each month's payment at the monthly rate annualRate/12.
func presentValueMonthly(adjusted decimal.Decimal, months int, annualRate decimal.Decimal) decimal.Decimal {
	monthly := adjusted.Div(decimal.NewFromInt(int64(months)))
	if annualRate.IsZero() {
		return monthly.Mul(decimal.NewFromInt(int64(months)))
	}
	monthlyRate := annualRate.Div(decimal.NewFromInt(12))
	onePlusRate := decimal.NewFromInt(1).Add(monthlyRate)

	sum := decimal.Zero
	discountFactor := decimal.NewFromInt(1)
	for m := 1; m <= months; m++ {
		discountFactor = discountFactor.Mul(onePlusRate)
		sum = sum.Add(monthly.Div(discountFactor))
	}
	return sum
}
