package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/pricing"
	"iaros/negotiation_engine/internal/types"
)

func TestMarginFit_BoundsAtFloorAndList(t *testing.T) {
	floor := decimal.NewFromInt(1000)
	list := decimal.NewFromInt(1200)
	assert.Equal(t, 0.0, MarginFit(floor, floor, list))
	assert.Equal(t, 1.0, MarginFit(list, floor, list))
}

func TestBuyerUtility_MonotoneNonIncreasingInPrice(t *testing.T) {
	req := types.Request{BudgetMaxAnnual: decimal.NewFromInt(500000)}
	vendor := types.VendorProfile{
		RiskLevel:   types.RiskLow,
		Reliability: types.ReliabilityStats{LeadTimeDays: 10},
	}
	c := pricing.Default()
	cheap := types.OfferComponents{UnitPrice: decimal.NewFromInt(100), Quantity: 100, TermMonths: 12, Payment: types.NET30}
	expensive := cheap
	expensive.UnitPrice = decimal.NewFromInt(200)

	cheapScore := ScoreOffer(cheap, vendor, req, c, false)
	expensiveScore := ScoreOffer(expensive, vendor, req, c, false)
	assert.GreaterOrEqual(t, cheapScore.Utility, expensiveScore.Utility)
}

func TestSpecMatch_StrictModeZeroesOnMissingMustHave(t *testing.T) {
	req := types.Request{MustHaves: []string{"soc2", "gdpr"}}
	vendor := types.VendorProfile{CapabilityTags: []string{"soc2"}}
	assert.Equal(t, 0.0, SpecMatch(req, vendor, true))
	assert.InDelta(t, 0.5, SpecMatch(req, vendor, false), 1e-9)
}

func TestComplianceScore_BlocksOnMissingCertification(t *testing.T) {
	req := types.Request{ComplianceRequirements: []string{"soc2"}}
	vendor := types.VendorProfile{Certifications: []string{"gdpr"}}
	score, blocking := ComplianceScore(req, vendor)
	assert.Equal(t, 0.0, score)
	assert.True(t, blocking)
}

func TestSensitivity_DoesNotMutateScore(t *testing.T) {
	score := types.OfferScore{TCOFit: 0.8, SpecMatch: 0.9, Compliance: 1.0, Risk: 0.9, Time: 0.7}
	before := score
	_ = Sensitivity(score)
	assert.Equal(t, before, score)
}
