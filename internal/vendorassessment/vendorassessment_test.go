package vendorassessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/types"
)

func TestAssess_StrongVendorIsLowRisk(t *testing.T) {
	r := Assess(Input{
		CreditRating:            "AAA",
		AnnualRevenue:           500_000_000,
		YearsInBusiness:         20,
		InsurancePolicies:       4,
		SLAPercent:              99.9,
		UptimePercent:           99.99,
		LeadTimeDays:            5,
		IncidentCount90d:        0,
		Certifications:          []string{"iso27001", "soc2"},
		RequiredComplianceCount: 2,
		YearsAsPartner:          5,
		StrategicFitTags:        4,
	})
	assert.Equal(t, types.RiskLow, r.RiskLevel)
	assert.LessOrEqual(t, r.TotalScore, TotalMax)
}

func TestAssess_WeakVendorIsHighRisk(t *testing.T) {
	r := Assess(Input{
		CreditRating:            "D",
		AnnualRevenue:           0,
		YearsInBusiness:         1,
		InsurancePolicies:       0,
		SLAPercent:              80,
		UptimePercent:           85,
		LeadTimeDays:            60,
		IncidentCount90d:        5,
		Certifications:          nil,
		RequiredComplianceCount: 3,
	})
	assert.Equal(t, types.RiskHigh, r.RiskLevel)
}

func TestAssess_MissingComplianceRequirementsScoreZero(t *testing.T) {
	r := Assess(Input{RequiredComplianceCount: 2, Certifications: nil})
	assert.Zero(t, r.ComplianceScore)
}

func TestAssess_NoRequirementsScoresFullCompliance(t *testing.T) {
	r := Assess(Input{RequiredComplianceCount: 0})
	assert.Equal(t, ComplianceMax, r.ComplianceScore)
}
