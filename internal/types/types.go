// Package types holds the negotiation engine's data model: the records
// that flow between C1-C8 as defined by the engine's dependency order.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTerms enumerates the payment cadences a vendor may accept.
type PaymentTerms string

const (
	NET15      PaymentTerms = "NET_15"
	NET30      PaymentTerms = "NET_30"
	NET45      PaymentTerms = "NET_45"
	Milestones PaymentTerms = "MILESTONES"
	Deposit    PaymentTerms = "DEPOSIT"
)

// BillingCadence is the unit over which a price or budget is quoted.
type BillingCadence string

const (
	CadencePerSeatPerYear   BillingCadence = "per_seat_per_year"
	CadencePerUnitPerYear   BillingCadence = "per_unit_per_year"
	CadencePerSeatPerMonth  BillingCadence = "per_seat_per_month"
	CadencePerUnitPerMonth  BillingCadence = "per_unit_per_month"
)

// RiskLevel is a vendor's coarse risk banding as assessed by vendorassessment.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RunMode governs how C3 treats guardrail/policy violations.
type RunMode string

const (
	RunModeSimulation RunMode = "simulation"
	RunModeEnforce    RunMode = "enforce"
)

// Actor identifies which side of a session made a move.
type Actor string

const (
	ActorBuyer  Actor = "BUYER"
	ActorSeller Actor = "SELLER"
)

// Outcome is a session's terminal (or in-progress) state.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeDropped    Outcome = "dropped"
	OutcomeStalemate  Outcome = "stalemate"
	OutcomeMaxRounds  Outcome = "max_rounds"
)

// DecisionHint summarizes what a round's actor did with the offer on the table.
type DecisionHint string

const (
	DecisionCounter DecisionHint = "counter"
	DecisionAccept  DecisionHint = "accept"
	DecisionReject  DecisionHint = "reject"
	DecisionDrop    DecisionHint = "drop"
)

// PersonalityPreset names one of the seven seller/buyer personality presets.
type PersonalityPreset string

const (
	PersonalityAggressive    PersonalityPreset = "aggressive"
	PersonalityCooperative   PersonalityPreset = "cooperative"
	PersonalityStrategic     PersonalityPreset = "strategic"
	PersonalityOpportunistic PersonalityPreset = "opportunistic"
	PersonalityPremium       PersonalityPreset = "premium"
	PersonalityVolumeFocused PersonalityPreset = "volume_focused"
	PersonalityRelationship  PersonalityPreset = "relationship"
)

// StrategyTag is the closed set of moves C5 may select and C6 may execute.
// strategy.Select resolves overlapping conditions by the order of its
// switch cases, not by the declaration order below.
type StrategyTag string

const (
	StrategyAnchorHigh             StrategyTag = "ANCHOR_HIGH"
	StrategyValueJustification     StrategyTag = "VALUE_JUSTIFICATION"
	StrategyCompetitiveMatch       StrategyTag = "COMPETITIVE_MATCH"
	StrategyVolumeIncentive        StrategyTag = "VOLUME_INCENTIVE"
	StrategyTermPremium            StrategyTag = "TERM_PREMIUM"
	StrategyRelationshipInvestment StrategyTag = "RELATIONSHIP_INVESTMENT"
	StrategyGradualConcession      StrategyTag = "GRADUAL_CONCESSION"
	StrategySplitDifference        StrategyTag = "SPLIT_DIFFERENCE"
	StrategyFinalOffer             StrategyTag = "FINAL_OFFER"
	StrategyHoldFirm               StrategyTag = "HOLD_FIRM"
	StrategyConditionalDiscount    StrategyTag = "CONDITIONAL_DISCOUNT"
	StrategyWalkAway               StrategyTag = "WALK_AWAY"
	// Present in the reference seller-strategy set but not reachable from the
	// default decision table; kept wired for direct exercise by offergen tests.
	StrategyScarcityLeverage StrategyTag = "SCARCITY_LEVERAGE"
	StrategyBundleUpsell     StrategyTag = "BUNDLE_UPSELL"
)

// Request is a procurement intent. Immutable once negotiation begins.
type Request struct {
	RequestID               string
	RequesterID              string
	Category                 string
	Description              string
	Quantity                 int
	BudgetMaxAnnual          decimal.Decimal
	Currency                 string
	Cadence                  BillingCadence
	MustHaves                []string
	NiceToHaves              []string
	ComplianceRequirements   []string
	PolicyBudgetCap          decimal.Decimal
	PolicyRiskThreshold      float64
	RequiredRegion           string // "" means unrestricted
	Timeline                 *time.Time
}

// VendorGuardrails are the vendor-side hard constraints C3 enforces.
type VendorGuardrails struct {
	PriceFloor          decimal.Decimal
	PaymentTermsAllowed []PaymentTerms
	TermMonthsAllowed   []int // empty means unrestricted
}

// ReliabilityStats carries a vendor's SLA, uptime and lead-time figures. C2's
// time score reads LeadTimeDays; C8's ranking tie-break reads SLAPercent.
type ReliabilityStats struct {
	SLAPercent   float64
	UptimePercent float64
	LeadTimeDays int
}

// ExchangePolicy is a vendor's trade-rate table. C6's generators do not
// read it.
type ExchangePolicy struct {
	PricePctPerTermStep    float64
	PricePctPerPaymentStep float64
	PricePctPerValueAddUnit float64
}

// VendorProfile is a counterparty. Immutable during a session.
type VendorProfile struct {
	VendorID       string
	Name           string
	CapabilityTags []string
	Certifications []string
	Regions        []string
	PriceTiers     map[int]decimal.Decimal // quantity bracket floor -> list unit price
	Guardrails     VendorGuardrails
	Reliability    ReliabilityStats
	RiskLevel      RiskLevel
	Exchange       ExchangePolicy
}

// ListPrice resolves the applicable list unit price for a given quantity.
func (v VendorProfile) ListPrice(quantity int) decimal.Decimal {
	best := -1
	var price decimal.Decimal
	for bracket, p := range v.PriceTiers {
		if bracket <= quantity && bracket > best {
			best = bracket
			price = p
		}
	}
	return price
}

// ValueAdd is a named credit with a monetary value attached to an offer.
type ValueAdd struct {
	Name  string
	Value decimal.Decimal
}

// OfferComponents is one concrete proposal.
type OfferComponents struct {
	UnitPrice    decimal.Decimal
	Currency     string
	Quantity     int
	TermMonths   int
	Payment      PaymentTerms
	ValueAdds    []ValueAdd
	DeliveryDays *int
}

// OfferScore is the C2 metric bundle for one (vendor, offer, request) triple.
type OfferScore struct {
	SpecMatch  float64
	Compliance float64
	TCOFit     float64
	Risk       float64
	Time       float64
	Utility    float64
	TCO        decimal.Decimal
	Blocking   bool
}

// SensitivityRow reports the linear utility delta for a +-10% perturbation
// of one score dimension, as produced by scoring.Sensitivity. Not used in
// computing utility.
type SensitivityRow struct {
	Dimension   string
	DeltaPlus10 float64
	DeltaMinus10 float64
}

// OpponentModel is per-counterparty, per-session beliefs updated from the
// observed offer trajectory. Session-private; never shared across sessions.
type OpponentModel struct {
	PriceFloorEstimate        decimal.Decimal
	PriceCeilingEstimate       decimal.Decimal
	PriceElasticity            float64
	TermElasticity             float64
	PaymentElasticity          float64
	ConsecutiveNoPriceMoves    int
	RecentOffers               []OfferComponents // bounded ring buffer, K=3
}

// Remember appends an offer to the bounded history, keeping only the last 3.
func (m *OpponentModel) Remember(o OfferComponents) {
	m.RecentOffers = append(m.RecentOffers, o)
	if len(m.RecentOffers) > 3 {
		m.RecentOffers = m.RecentOffers[len(m.RecentOffers)-3:]
	}
}

// Violation is a single policy or guardrail breach.
type Violation struct {
	Kind     string // "policy" | "guardrail"
	Code     string
	Message  string
	Severity string // "HARD" | "SOFT"
}

// RoundMemory is an immutable, append-only record of one turn.
type RoundMemory struct {
	Round             int
	Actor             Actor
	Offer             OfferComponents
	Strategy          StrategyTag
	Utility           float64
	Violations        []Violation
	Decision          DecisionHint
	Clamped           bool
	RationaleText     string
	RationaleDegraded bool
	Timestamp         time.Time
}

// SessionState is one buyer<->vendor negotiation.
type SessionState struct {
	SessionID       string
	RequestID       string
	VendorID        string
	Opponent        OpponentModel // buyer's model of the seller
	SellerOpponent  OpponentModel // seller's model of the buyer
	Round           int
	RoundMemories   []RoundMemory
	Outcome         Outcome
	OutcomeReason   string
	FinalOfferIndex int // index into RoundMemories, -1 if none
	SavingsAchieved decimal.Decimal
}

// Terminal reports whether the session has reached a terminal outcome.
func (s SessionState) Terminal() bool {
	return s.Outcome != OutcomeInProgress
}

// NegotiationPlan holds the parameters chosen once per request.
type NegotiationPlan struct {
	MaxRounds             int
	MinAcceptableUtility   float64
	DiscountRateAnnual     float64
	ConcessionSchedule     []StrategyTag
	PersonalityPreset      PersonalityPreset
	RunMode                RunMode
	RoundTimeoutSeconds    int
	MaxConcurrentSessions  int
	RandomSeed             int64
	// LearningPrior optionally seeds C4's initializer from internal/learning.
	// Never consumed by C5 — see spec design note on the learning subsystem.
	LearningPrior *LearningPrior
}

// LearningPrior is the only channel by which internal/learning may influence
// a session: a hint folded into OpponentModel initialization, nothing else.
type LearningPrior struct {
	FloorHint *decimal.Decimal
}

// SessionOutcome is the per-vendor result returned by Negotiate, ranked by
// the coordinator before being handed back to the caller.
type SessionOutcome struct {
	SessionID       string
	VendorID        string
	Outcome         Outcome
	OutcomeReason   string
	FinalOffer      *OfferComponents
	BuyerUtility    float64
	TCO             decimal.Decimal
	SavingsAchieved decimal.Decimal
	Rounds          int
}
