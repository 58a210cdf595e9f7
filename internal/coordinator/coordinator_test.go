package coordinator

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iaros/negotiation_engine/internal/collaborator"
	"iaros/negotiation_engine/internal/events"
	"iaros/negotiation_engine/internal/storage"
	"iaros/negotiation_engine/internal/telemetry"
	"iaros/negotiation_engine/internal/types"
)

func testVendor(id string, floor int64) types.VendorProfile {
	return types.VendorProfile{
		VendorID:       id,
		PriceTiers:     map[int]decimal.Decimal{0: decimal.NewFromInt(1200)},
		Guardrails:     types.VendorGuardrails{PriceFloor: decimal.NewFromInt(floor), PaymentTermsAllowed: []types.PaymentTerms{types.NET15, types.NET30, types.NET45}},
		Reliability:    types.ReliabilityStats{SLAPercent: 99, LeadTimeDays: 10},
		RiskLevel:      types.RiskLow,
	}
}

func testRequest() types.Request {
	return types.Request{
		RequestID:       "req-parallel",
		Quantity:        100,
		BudgetMaxAnnual: decimal.NewFromInt(110000),
		Currency:        "USD",
		Cadence:         types.CadencePerUnitPerYear,
	}
}

func testPlan() types.NegotiationPlan {
	return types.NegotiationPlan{
		MaxRounds: 6, MinAcceptableUtility: 0.5, DiscountRateAnnual: 0.05,
		PersonalityPreset: types.PersonalityCooperative, RunMode: types.RunModeSimulation,
		RoundTimeoutSeconds: 30, MaxConcurrentSessions: 2, RandomSeed: 7,
	}
}

func TestCoordinator_Negotiate_RunsAllVendorsAndRanks(t *testing.T) {
	pub := &events.FakePublisher{}
	repo := &storage.InMemoryRepository{}
	c := New(testPlan(), collaborator.FallbackClient{}, pub, repo, telemetry.New(), nil)

	vendors := []types.VendorProfile{
		testVendor("v1", 950),
		testVendor("v2", 900),
		testVendor("v3", 1000),
	}

	outcomes := c.Negotiate(context.Background(), testRequest(), vendors)
	require.Len(t, outcomes, 3)
	require.Len(t, repo.Saved, 3)

	for i := 1; i < len(outcomes); i++ {
		assert.GreaterOrEqual(t, outcomes[i-1].BuyerUtility, outcomes[i].BuyerUtility)
	}
}

func TestCoordinator_Negotiate_EmitsShortlistAndLifecycleEvents(t *testing.T) {
	pub := &events.FakePublisher{}
	c := New(testPlan(), collaborator.FallbackClient{}, pub, &storage.InMemoryRepository{}, telemetry.New(), nil)

	c.Negotiate(context.Background(), testRequest(), []types.VendorProfile{testVendor("v1", 950)})

	var names []string
	for _, e := range pub.Events {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, events.ShortlistProduced)
	assert.Contains(t, names, events.SessionStarted)
	assert.Contains(t, names, events.RoundCompleted)
	assert.Contains(t, names, events.SessionTerminated)
}

func TestCoordinator_Negotiate_RespectsConcurrencyBoundWithoutDeadlock(t *testing.T) {
	plan := testPlan()
	plan.MaxConcurrentSessions = 1
	c := New(plan, collaborator.FallbackClient{}, &events.FakePublisher{}, &storage.InMemoryRepository{}, telemetry.New(), nil)

	vendors := make([]types.VendorProfile, 5)
	for i := range vendors {
		vendors[i] = testVendor(string(rune('a'+i)), 950)
	}
	outcomes := c.Negotiate(context.Background(), testRequest(), vendors)
	assert.Len(t, outcomes, 5)
}
