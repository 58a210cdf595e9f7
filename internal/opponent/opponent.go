// Package opponent implements C4, the Opponent Model: per-counterparty
// beliefs updated from the observed offer trajectory. A mutable-by-design
// struct, but mutation is confined to the session's single owning
// goroutine — no mutex needed per the engine's concurrency model.
package opponent

import (
	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/types"
)

const priceMoveThreshold = 1 // currency units

// Init seeds an OpponentModel from a prior belief about the counterparty's
// list price or budget ceiling (`basis`): floor = 0.8*basis, ceiling =
// 1.1*basis. When learningFloorHint is non-nil it overrides the computed
// floor estimate — the only channel by which internal/learning may affect
// a session.
func Init(basis decimal.Decimal, learningFloorHint *decimal.Decimal) types.OpponentModel {
	floor := basis.Mul(decimal.NewFromFloat(0.8))
	if learningFloorHint != nil {
		floor = *learningFloorHint
	}
	return types.OpponentModel{
		PriceFloorEstimate:  floor,
		PriceCeilingEstimate: basis.Mul(decimal.NewFromFloat(1.1)),
		PriceElasticity:      0.5,
		TermElasticity:       0.5,
		PaymentElasticity:    0.5,
	}
}

// Update folds one newly observed counter-offer into the model, per the
// engine's elasticity and stall-counter update rules, and appends the
// offer to the bounded recent-offers buffer.
func Update(model *types.OpponentModel, previous *types.OfferComponents, observed types.OfferComponents) {
	if previous == nil {
		model.Remember(observed)
		return
	}

	priceDelta := observed.UnitPrice.Sub(previous.UnitPrice)
	if priceDelta.Abs().LessThan(decimal.NewFromInt(priceMoveThreshold)) {
		model.ConsecutiveNoPriceMoves++
		model.PriceElasticity = maxF(0.1, model.PriceElasticity-0.1)
	} else {
		model.ConsecutiveNoPriceMoves = 0
		model.PriceElasticity = minF(0.9, model.PriceElasticity+0.1)
		if priceDelta.IsNegative() {
			candidate := observed.UnitPrice.Sub(decimal.NewFromInt(50))
			if candidate.GreaterThan(model.PriceFloorEstimate) {
				model.PriceFloorEstimate = candidate
			}
		}
	}

	if observed.TermMonths != previous.TermMonths {
		model.TermElasticity = minF(0.9, model.TermElasticity+0.1)
	}
	if observed.Payment != previous.Payment {
		model.PaymentElasticity = minF(0.9, model.PaymentElasticity+0.1)
	}

	model.Remember(observed)
}

func maxF(a, b float64) float64 {
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
