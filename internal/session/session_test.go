package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iaros/negotiation_engine/internal/collaborator"
	"iaros/negotiation_engine/internal/events"
	"iaros/negotiation_engine/internal/telemetry"
	"iaros/negotiation_engine/internal/types"
)

func testVendor() types.VendorProfile {
	return types.VendorProfile{
		VendorID:       "vendor-1",
		Name:           "Acme Supply",
		CapabilityTags: []string{"soc2", "api"},
		Certifications: []string{"iso27001"},
		Regions:        []string{"us", "eu"},
		PriceTiers:     map[int]decimal.Decimal{0: decimal.NewFromInt(1200)},
		Guardrails: types.VendorGuardrails{
			PriceFloor:          decimal.NewFromInt(950),
			PaymentTermsAllowed: []types.PaymentTerms{types.NET15, types.NET30, types.NET45},
		},
		Reliability: types.ReliabilityStats{SLAPercent: 99.9, UptimePercent: 99.9, LeadTimeDays: 14},
		RiskLevel:   types.RiskLow,
	}
}

func testRequest() types.Request {
	return types.Request{
		RequestID:       "req-1",
		Quantity:        100,
		BudgetMaxAnnual: decimal.NewFromInt(110000),
		Currency:        "USD",
		Cadence:         types.CadencePerUnitPerYear,
		ComplianceRequirements: []string{"iso27001"},
	}
}

func testPlan() types.NegotiationPlan {
	return types.NegotiationPlan{
		MaxRounds:             8,
		MinAcceptableUtility:  0.5,
		DiscountRateAnnual:    0.05,
		PersonalityPreset:     types.PersonalityCooperative,
		RunMode:               types.RunModeSimulation,
		RoundTimeoutSeconds:   30,
		MaxConcurrentSessions: 8,
		RandomSeed:            42,
	}
}

func TestDriver_Run_ReachesTerminalOutcome(t *testing.T) {
	d := NewDriver(testRequest(), testVendor(), testPlan(), 0, collaborator.FallbackClient{}, nil, telemetry.New())
	state := d.Run(context.Background(), "sess-1")
	assert.True(t, state.Terminal())
	assert.NotEmpty(t, state.RoundMemories)
}

func TestDriver_Run_RespectsMaxRounds(t *testing.T) {
	plan := testPlan()
	plan.MaxRounds = 2
	d := NewDriver(testRequest(), testVendor(), plan, 0, collaborator.FallbackClient{}, nil, telemetry.New())
	state := d.Run(context.Background(), "sess-2")
	assert.True(t, state.Terminal())
	assert.LessOrEqual(t, state.Round, 2)
}

func TestDriver_Run_CancelledContextDropsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDriver(testRequest(), testVendor(), testPlan(), 0, collaborator.FallbackClient{}, nil, telemetry.New())
	state := d.Run(ctx, "sess-3")
	assert.Equal(t, types.OutcomeDropped, state.Outcome)
	assert.Equal(t, "cancelled", state.OutcomeReason)
}

func TestDriver_Run_PublishesRoundCompletedEvents(t *testing.T) {
	pub := &events.FakePublisher{}
	d := NewDriver(testRequest(), testVendor(), testPlan(), 0, collaborator.FallbackClient{}, pub, telemetry.New())
	d.Run(context.Background(), "sess-events")

	found := 0
	for _, e := range pub.Events {
		if e.Name == events.RoundCompleted {
			found++
			assert.NotEmpty(t, e.Payload["actor"])
		}
	}
	assert.Greater(t, found, 0)
}

// S-24
func TestDriver_Run_EnforceModeRejectsMissingCertificationWithNoRounds(t *testing.T) {
	plan := testPlan()
	plan.RunMode = types.RunModeEnforce
	req := testRequest()
	req.ComplianceRequirements = []string{"soc2"}
	vendor := testVendor()
	vendor.Certifications = []string{"iso27001"}

	d := NewDriver(req, vendor, plan, 0, collaborator.FallbackClient{}, nil, telemetry.New())
	state := d.Run(context.Background(), "sess-s24")

	assert.Equal(t, types.OutcomeRejected, state.Outcome)
	assert.Equal(t, "missing_certification: soc2", state.OutcomeReason)
	assert.Zero(t, state.Round)
	assert.Empty(t, state.RoundMemories)
}

func TestIsStalemate_DetectsNoMovementWindow(t *testing.T) {
	price := decimal.NewFromInt(1000)
	var memories []types.RoundMemory
	for i := 0; i < 4; i++ {
		actor := types.ActorBuyer
		if i%2 == 1 {
			actor = types.ActorSeller
		}
		memories = append(memories, types.RoundMemory{
			Actor: actor,
			Offer: types.OfferComponents{UnitPrice: price, TermMonths: 12, Payment: types.NET30},
		})
	}
	assert.True(t, isStalemate(memories))
}

func TestIsStalemate_FalseOnLargeMove(t *testing.T) {
	var memories []types.RoundMemory
	prices := []int64{1200, 1100, 900, 800}
	for i, p := range prices {
		actor := types.ActorBuyer
		if i%2 == 1 {
			actor = types.ActorSeller
		}
		memories = append(memories, types.RoundMemory{
			Actor: actor,
			Offer: types.OfferComponents{UnitPrice: decimal.NewFromInt(p), TermMonths: 12, Payment: types.NET30},
		})
	}
	assert.False(t, isStalemate(memories))
}

func TestDriver_Accepts_RejectsOutsideTargetBand(t *testing.T) {
	d := NewDriver(testRequest(), testVendor(), testPlan(), 0, collaborator.FallbackClient{}, nil, telemetry.New())
	memory := types.RoundMemory{
		Utility: 0.9,
		Offer:   types.OfferComponents{UnitPrice: decimal.NewFromInt(2000)},
	}
	require.False(t, d.accepts(memory, decimal.NewFromInt(1000), decimal.Zero))
}
