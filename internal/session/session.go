// Package session implements C7, the Round State Machine: the per-session
// driver that alternates buyer and seller turns, wiring C1-C6 and the
// justification collaborator into one sequential loop. Grounded on the
// reference seller agent's negotiate loop, generalized to drive both
// sides of the table from the same code.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"iaros/negotiation_engine/internal/collaborator"
	"iaros/negotiation_engine/internal/events"
	"iaros/negotiation_engine/internal/negotiationerr"
	"iaros/negotiation_engine/internal/offergen"
	"iaros/negotiation_engine/internal/opponent"
	"iaros/negotiation_engine/internal/policy"
	"iaros/negotiation_engine/internal/pricing"
	"iaros/negotiation_engine/internal/scoring"
	"iaros/negotiation_engine/internal/strategy"
	"iaros/negotiation_engine/internal/telemetry"
	"iaros/negotiation_engine/internal/types"
)

// stalemateWindow is the number of most recent round memories (2 buyer + 2
// seller turns) inspected for the stalemate condition.
const stalemateWindow = 4

// stalematePriceDeltaUnits is the currency-unit threshold below which a price
// move across the window counts as "no move" for stalemate purposes.
const stalematePriceDeltaUnits = 10

// acceptanceTargetBand is the fraction of list price within which an
// offer's price must sit relative to the accepting side's own target to
// pass the acceptance test.
const acceptanceTargetBand = 0.01

// Driver runs one session to a terminal outcome.
type Driver struct {
	Request types.Request
	Vendor  types.VendorProfile
	Plan    types.NegotiationPlan
	Pricing pricing.Constants

	Collaborator collaborator.JustificationClient
	Events       events.Publisher // may be nil; round.completed is skipped if so
	Logger       *telemetry.Logger
	Rand         *rand.Rand // seeded per session; required

	BuyerTraits  strategy.Traits
	SellerTraits strategy.Traits
	VendorCtx    strategy.VendorContext
}

// NewDriver builds a Driver with a session-private seeded RNG derived from
// the plan's configured seed plus the session index, so concurrent
// sessions never share mutable random state.
func NewDriver(req types.Request, vendor types.VendorProfile, plan types.NegotiationPlan, sessionIndex int, collab collaborator.JustificationClient, pub events.Publisher, logger *telemetry.Logger) *Driver {
	seed := plan.RandomSeed + int64(sessionIndex)
	sellerTraits := strategy.AdjustForContext(strategy.Preset(plan.PersonalityPreset), strategy.DefaultVendorContext())
	return &Driver{
		Request:      req,
		Vendor:       vendor,
		Plan:         plan,
		Pricing:      pricing.Default(),
		Collaborator: collab,
		Events:       pub,
		Logger:       logger,
		Rand:         rand.New(rand.NewSource(seed)),
		BuyerTraits:  strategy.Traits{ConcessionWillingness: 0.5, FloorFlexibility: 0.5, PressureSensitivity: 0.5, RelationshipFocus: 0.5, CompetitiveResponse: 0.5, RiskTolerance: 0.5, Patience: 0.6, ValueEmphasis: 0.5},
		SellerTraits: sellerTraits,
		VendorCtx:    strategy.DefaultVendorContext(),
	}
}

// opening builds the seller's opening anchor: list price, NET_30, 12 months.
func (d *Driver) opening() types.OfferComponents {
	return types.OfferComponents{
		UnitPrice:  d.Vendor.ListPrice(d.Request.Quantity),
		Currency:   d.Request.Currency,
		Quantity:   d.Request.Quantity,
		TermMonths: 12,
		Payment:    types.NET30,
	}
}

// buyerTarget approximates the buyer's ideal unit price from its annual
// budget, scaled by the request's billing-cadence factor and divided by
// the requested quantity.
func (d *Driver) buyerTarget() decimal.Decimal {
	annual := pricing.Normalize(d.Request.BudgetMaxAnnual, d.Request.Cadence, d.Pricing)
	if d.Request.Quantity <= 0 {
		return annual
	}
	return annual.Div(decimal.NewFromInt(int64(d.Request.Quantity)))
}

// Run drives the session to a terminal SessionState. ctx governs the whole
// session; a per-round deadline is derived from plan.RoundTimeoutSeconds.
func (d *Driver) Run(ctx context.Context, sessionID string) types.SessionState {
	state := types.SessionState{
		SessionID:       sessionID,
		RequestID:       d.Request.RequestID,
		VendorID:        d.Vendor.VendorID,
		Outcome:         types.OutcomeInProgress,
		FinalOfferIndex: -1,
	}

	target := d.buyerTarget()
	state.Opponent = opponent.Init(d.Vendor.ListPrice(d.Request.Quantity), learningFloorHint(d.Plan.LearningPrior))
	state.SellerOpponent = opponent.Init(target, nil)

	checker := policy.NewChecker(d.Plan.RunMode)

	logger := d.Logger.WithSession(sessionID, d.Vendor.VendorID)

	if staticViolations := checker.CheckStatic(d.Request, d.Vendor); policy.HasHard(staticViolations) && d.Plan.RunMode == types.RunModeEnforce {
		reason := policy.FirstHardReason(staticViolations)
		negotiationerr.NewPolicyViolation("session.Run", reason).WithSession(sessionID, 0).Log(logger.Logger)
		state.Outcome = types.OutcomeRejected
		state.OutcomeReason = reason
		return state
	}

	current := d.opening()

	for round := 1; round <= d.Plan.MaxRounds; round++ {
		state.Round = round

		roundCtx, cancel := context.WithTimeout(ctx, time.Duration(d.Plan.RoundTimeoutSeconds)*time.Second)

		if ctx.Err() != nil {
			cancel()
			negotiationerr.NewCancelled("session.Run", "context cancelled before round start").WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeDropped
			state.OutcomeReason = "cancelled"
			return state
		}

		// Buyer turn. The buyer's new offer is what the seller observes, so
		// it folds into SellerOpponent (the seller's model of the buyer).
		previousOffer := current
		buyerMemory, buyerOffer, terminal := d.takeTurn(roundCtx, types.ActorBuyer, round, current, target, state.Opponent, checker, logger)
		opponent.Update(&state.SellerOpponent, &previousOffer, buyerOffer)
		state.RoundMemories = append(state.RoundMemories, buyerMemory)
		d.publishRoundCompleted(ctx, sessionID, round, buyerMemory)
		if terminal {
			cancel()
			negotiationerr.NewStrategyInfeasible("session.Run", "buyer walked away: no feasible zone of agreement").WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeDropped
			state.OutcomeReason = "no_zopa"
			return state
		}
		current = buyerOffer

		if policy.HasHard(buyerMemory.Violations) && d.Plan.RunMode == types.RunModeEnforce {
			cancel()
			reason := policy.FirstHardReason(buyerMemory.Violations)
			negotiationerr.NewPolicyViolation("session.Run", reason).WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeRejected
			state.OutcomeReason = reason
			return state
		}

		if d.accepts(buyerMemory, target, d.Request.PolicyBudgetCap) {
			cancel()
			state.Outcome = types.OutcomeAccepted
			state.FinalOfferIndex = len(state.RoundMemories) - 1
			state.SavingsAchieved = d.savings(current)
			return state
		}

		if roundCtx.Err() != nil {
			cancel()
			negotiationerr.NewTimeout("session.Run", "round deadline exceeded").WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeMaxRounds
			state.OutcomeReason = "round_timeout"
			return state
		}

		// Seller turn. The seller's new offer is what the buyer observes, so
		// it folds into Opponent (the buyer's model of the seller).
		previousOffer = current
		sellerMemory, sellerOffer, terminal := d.takeTurn(roundCtx, types.ActorSeller, round, current, d.Vendor.ListPrice(d.Request.Quantity), state.SellerOpponent, checker, logger)
		opponent.Update(&state.Opponent, &previousOffer, sellerOffer)
		state.RoundMemories = append(state.RoundMemories, sellerMemory)
		d.publishRoundCompleted(ctx, sessionID, round, sellerMemory)
		cancel()

		if terminal {
			negotiationerr.NewStrategyInfeasible("session.Run", "seller walked away: no feasible zone of agreement").WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeDropped
			state.OutcomeReason = "no_zopa"
			return state
		}
		current = sellerOffer

		if policy.HasHard(sellerMemory.Violations) && d.Plan.RunMode == types.RunModeEnforce {
			reason := policy.FirstHardReason(sellerMemory.Violations)
			negotiationerr.NewGuardrailViolation("session.Run", reason).WithSession(sessionID, round).Log(logger.Logger)
			state.Outcome = types.OutcomeRejected
			state.OutcomeReason = reason
			return state
		}

		if d.accepts(sellerMemory, d.Vendor.Guardrails.PriceFloor, decimal.Zero) {
			state.Outcome = types.OutcomeAccepted
			state.FinalOfferIndex = len(state.RoundMemories) - 1
			state.SavingsAchieved = d.savings(current)
			return state
		}

		if isStalemate(state.RoundMemories) {
			state.Outcome = types.OutcomeStalemate
			state.OutcomeReason = "no_material_movement"
			return state
		}
	}

	state.Outcome = types.OutcomeMaxRounds
	state.OutcomeReason = "round_limit_reached"
	return state
}

// publishRoundCompleted emits round.completed with the round's actor,
// offer, strategy tag, utility, and violations. A no-op when Events is
// nil, so Drivers built without a publisher (most tests) pay nothing.
func (d *Driver) publishRoundCompleted(ctx context.Context, sessionID string, round int, memory types.RoundMemory) {
	if d.Events == nil {
		return
	}
	_ = d.Events.Publish(ctx, events.Event{
		Name:      events.RoundCompleted,
		SessionID: sessionID,
		RequestID: d.Request.RequestID,
		VendorID:  d.Vendor.VendorID,
		Round:     round,
		Payload: map[string]interface{}{
			"actor":      string(memory.Actor),
			"offer":      memory.Offer,
			"strategy":   string(memory.Strategy),
			"utility":    memory.Utility,
			"violations": memory.Violations,
		},
	})
}

// takeTurn runs one side's turn: select a strategy, generate an offer,
// check it, and synthesize rationale. Returns terminal=true on WALK_AWAY.
func (d *Driver) takeTurn(ctx context.Context, actor types.Actor, round int, counter types.OfferComponents, ownTarget decimal.Decimal, model types.OpponentModel, checker policy.Checker, logger *telemetry.Logger) (types.RoundMemory, types.OfferComponents, bool) {
	traits := d.BuyerTraits
	floor := ownTarget
	if actor == types.ActorSeller {
		traits = d.SellerTraits
		floor = d.Vendor.Guardrails.PriceFloor
	}

	own := counter
	own.UnitPrice = ownTarget

	priceGap := 0.0
	if f, _ := ownTarget.Float64(); f != 0 {
		diff, _ := counter.UnitPrice.Sub(ownTarget).Float64()
		priceGap = diff / f
	}

	tag := strategy.Select(strategy.DecisionContext{
		Round:          round,
		TotalRounds:    d.Plan.MaxRounds,
		PriceGap:       priceGap,
		DealImportance: 0.5,
		Traits:         traits,
		VendorCtx:      d.VendorCtx,
	})

	result, err := offergen.Generate(tag, offergen.Input{
		Own:     own,
		Counter: counter,
		Floor:   floor,
		List:    d.Vendor.ListPrice(d.Request.Quantity),
		Traits:  traits,
	})
	if err != nil {
		logger.Error("offer generation failed", zap.Error(err))
		return types.RoundMemory{Round: round, Actor: actor, Timestamp: time.Now()}, counter, true
	}

	if result.Terminal {
		return types.RoundMemory{
			Round: round, Actor: actor, Strategy: tag, Decision: types.DecisionDrop,
			Timestamp: time.Now(),
		}, counter, true
	}

	offer := result.Offer
	clamped := false
	if actor == types.ActorSeller {
		offer, clamped = offergen.ClampToFloor(offer, d.Vendor.Guardrails.PriceFloor)
	} else {
		offer, clamped = offergen.ClampToCeiling(offer, ownTarget.Mul(decimal.NewFromFloat(1.5)))
	}

	var violations []types.Violation
	if actor == types.ActorSeller {
		violations = checker.CheckGuardrail(offer, d.Vendor)
	} else {
		score := scoring.ScoreOffer(offer, d.Vendor, d.Request, d.Pricing, true)
		violations = checker.CheckPolicy(d.Request, d.Vendor, score)
	}

	score := scoring.ScoreOffer(offer, d.Vendor, d.Request, d.Pricing, true)
	utility := score.Utility
	if actor == types.ActorSeller {
		utility = scoring.SellerUtility(offer, d.Vendor)
	}

	memory := types.RoundMemory{
		Round:      round,
		Actor:      actor,
		Offer:      offer,
		Strategy:   tag,
		Utility:    utility,
		Violations: violations,
		Decision:   types.DecisionCounter,
		Clamped:    clamped,
		Timestamp:  time.Now(),
	}

	text, degraded := collaborator.SynthesizeWithFallback(ctx, d.Collaborator, memory)
	memory.RationaleText = text
	memory.RationaleDegraded = degraded
	if degraded {
		negotiationerr.NewCollaboratorError("synthesize_rationale", "justification service degraded", nil).
			WithSession("", round).Log(logger.Logger)
	}

	logger.WithRound(round).RoundCompleted(string(actor), string(tag), utility, clamped)

	return memory, offer, false
}

// accepts applies the acceptance test: utility >= min_acceptable_utility,
// TCO <= budget (when a cap is configured), no HARD policy violations, and
// the offered price within 1% of list price of the accepting side's own
// target.
func (d *Driver) accepts(memory types.RoundMemory, ownTarget decimal.Decimal, budgetCap decimal.Decimal) bool {
	if memory.Utility < d.Plan.MinAcceptableUtility {
		return false
	}
	if policy.HasHard(memory.Violations) {
		return false
	}
	if budgetCap.IsPositive() {
		tco := pricing.TCO(memory.Offer, d.Pricing)
		if tco.GreaterThan(budgetCap) {
			return false
		}
	}
	if ownTarget.IsZero() {
		return false
	}
	diff := memory.Offer.UnitPrice.Sub(ownTarget).Abs()
	band := d.Vendor.ListPrice(d.Request.Quantity).Mul(decimal.NewFromFloat(acceptanceTargetBand))
	return diff.LessThanOrEqual(band)
}

func (d *Driver) savings(final types.OfferComponents) decimal.Decimal {
	list := d.Vendor.ListPrice(d.Request.Quantity)
	if list.IsZero() {
		return decimal.Zero
	}
	return list.Sub(final.UnitPrice).Mul(decimal.NewFromInt(int64(final.Quantity)))
}

// isStalemate inspects the last stalemateWindow round memories: true if
// both sides' absolute price change across the window is below threshold
// and neither term nor payment changed.
func isStalemate(memories []types.RoundMemory) bool {
	if len(memories) < stalemateWindow {
		return false
	}
	window := memories[len(memories)-stalemateWindow:]

	// Turns alternate, so each memory is compared with the same side's
	// previous memory two entries back.
	threshold := decimal.NewFromInt(stalematePriceDeltaUnits)
	for i := 2; i < len(window); i++ {
		prev, cur := window[i-2], window[i]
		if prev.Actor != cur.Actor {
			continue
		}
		delta := cur.Offer.UnitPrice.Sub(prev.Offer.UnitPrice).Abs()
		if delta.GreaterThanOrEqual(threshold) {
			return false
		}
		if cur.Offer.TermMonths != prev.Offer.TermMonths || cur.Offer.Payment != prev.Offer.Payment {
			return false
		}
	}
	return true
}

func learningFloorHint(p *types.LearningPrior) *decimal.Decimal {
	if p == nil {
		return nil
	}
	return p.FloorHint
}
