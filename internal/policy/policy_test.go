package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/types"
)

func TestCheckGuardrail_BelowFloorIsHard(t *testing.T) {
	checker := NewChecker(types.RunModeSimulation)
	vendor := types.VendorProfile{Guardrails: types.VendorGuardrails{PriceFloor: decimal.NewFromInt(1000)}}
	offer := types.OfferComponents{UnitPrice: decimal.NewFromInt(900)}
	violations := checker.CheckGuardrail(offer, vendor)
	assert.True(t, HasHard(violations))
}

func TestCheckGuardrail_DisallowedPaymentTerm(t *testing.T) {
	checker := NewChecker(types.RunModeSimulation)
	vendor := types.VendorProfile{Guardrails: types.VendorGuardrails{
		PaymentTermsAllowed: []types.PaymentTerms{types.NET30},
	}}
	offer := types.OfferComponents{UnitPrice: decimal.NewFromInt(1000), Payment: types.NET45}
	violations := checker.CheckGuardrail(offer, vendor)
	assert.True(t, HasHard(violations))
}

// S-24
func TestCheckPolicy_MissingCertificationRejectsWithReason(t *testing.T) {
	checker := NewChecker(types.RunModeSimulation)
	req := types.Request{ComplianceRequirements: []string{"gdpr", "soc2"}}
	vendor := types.VendorProfile{Certifications: []string{"gdpr"}}
	score := types.OfferScore{Blocking: true}
	violations := checker.CheckPolicy(req, vendor, score)
	assert.True(t, HasHard(violations))
	found := false
	for _, v := range violations {
		if v.Code == "missing_certification" {
			found = true
			assert.Contains(t, v.Message, "soc2")
		}
	}
	assert.True(t, found)
}

// S-24
func TestCheckStatic_MissingCertificationIsHardBeforeAnyOffer(t *testing.T) {
	checker := NewChecker(types.RunModeEnforce)
	req := types.Request{ComplianceRequirements: []string{"soc2"}}
	vendor := types.VendorProfile{Certifications: []string{"iso27001"}}
	violations := checker.CheckStatic(req, vendor)
	assert.True(t, HasHard(violations))
	assert.Equal(t, "missing_certification: soc2", FirstHardReason(violations))
}

func TestCheckStatic_UnsupportedRegionIsHard(t *testing.T) {
	checker := NewChecker(types.RunModeEnforce)
	req := types.Request{RequiredRegion: "apac"}
	vendor := types.VendorProfile{Regions: []string{"us", "eu"}}
	violations := checker.CheckStatic(req, vendor)
	assert.True(t, HasHard(violations))
}

func TestCheckStatic_SatisfiedRequestHasNoViolations(t *testing.T) {
	checker := NewChecker(types.RunModeEnforce)
	req := types.Request{ComplianceRequirements: []string{"iso27001"}, RequiredRegion: "us"}
	vendor := types.VendorProfile{Certifications: []string{"iso27001"}, Regions: []string{"us"}}
	assert.Empty(t, checker.CheckStatic(req, vendor))
}

func TestCheckPolicy_CalledTwiceIsIdempotent(t *testing.T) {
	checker := NewChecker(types.RunModeEnforce)
	req := types.Request{PolicyBudgetCap: decimal.NewFromInt(1000)}
	vendor := types.VendorProfile{}
	score := types.OfferScore{TCO: decimal.NewFromInt(2000)}
	first := checker.CheckPolicy(req, vendor, score)
	second := checker.CheckPolicy(req, vendor, score)
	assert.Equal(t, first, second)
}
