// Package vendorassessment computes a vendor's RiskLevel banding (the input
// C2's Risk dimension reads) from a fixed 124-point scoring framework,
// adapted from the platform's vendor-management assessment engine: the
// same five weighted categories (financial, operational, compliance,
// risk, strategic), reduced to one pure function over an assessment
// input record — no database, no background monitoring, no external
// sanctions/credit/tax collaborators, since none of those concerns have
// a home in this engine's scope.
package vendorassessment

import "iaros/negotiation_engine/internal/types"

// Category point caps, carried unchanged from the 124-point framework.
const (
	FinancialMax    = 32.0
	OperationalMax  = 28.0
	ComplianceMax   = 26.0
	RiskMax         = 22.0
	StrategicMax    = 16.0
	TotalMax        = FinancialMax + OperationalMax + ComplianceMax + RiskMax + StrategicMax
)

// Input bundles the facts the assessment reads. All fields are optional
// and a zero value never errors. Most zero values score the minimum for
// their criterion; an empty CreditRating scores the midpoint, and zero
// LeadTimeDays, IncidentCount90d or RequiredComplianceCount score the
// maximum.
type Input struct {
	CreditRating       string // "AAA".."D", "" if unknown
	AnnualRevenue      float64
	YearsInBusiness    int
	InsurancePolicies  int
	SLAPercent         float64
	UptimePercent      float64
	LeadTimeDays       int
	IncidentCount90d   int
	Certifications     []string
	RequiredComplianceCount int
	YearsAsPartner     int
	StrategicFitTags   int // count of buyer-relevant capability tags
}

// Result is the five category subscores plus the derived total and banding.
type Result struct {
	FinancialScore   float64
	OperationalScore float64
	ComplianceScore  float64
	RiskScore        float64
	StrategicScore   float64
	TotalScore       float64
	RiskLevel        types.RiskLevel
}

var creditRatingPoints = map[string]float64{
	"AAA": 8, "AA": 7, "A": 6, "BBB": 5, "BB": 4, "B": 3, "CCC": 2, "CC": 1, "C": 0.5, "D": 0,
}

func scoreCreditRating(rating string) float64 {
	if v, ok := creditRatingPoints[rating]; ok {
		return v
	}
	return 4 // unknown rating scores the midpoint, neither penalized nor rewarded
}

// scoreFinancialStability awards up to 8 points split evenly between
// revenue scale and business tenure.
func scoreFinancialStability(annualRevenue float64, yearsInBusiness int) float64 {
	revenuePts := 0.0
	switch {
	case annualRevenue >= 100_000_000:
		revenuePts = 4
	case annualRevenue >= 10_000_000:
		revenuePts = 3
	case annualRevenue >= 1_000_000:
		revenuePts = 2
	case annualRevenue > 0:
		revenuePts = 1
	}
	tenurePts := minF(4, float64(yearsInBusiness)/5.0*4)
	return revenuePts + tenurePts
}

func scoreInsuranceCoverage(policies int) float64 {
	return minF(8, float64(policies)*2)
}

// Assess runs the five-category assessment over in and derives a
// RiskLevel banding from the total score.
func Assess(in Input) Result {
	financial := scoreCreditRating(in.CreditRating) +
		scoreFinancialStability(in.AnnualRevenue, in.YearsInBusiness) +
		scoreInsuranceCoverage(in.InsurancePolicies) +
		minF(8, float64(in.YearsInBusiness)/10.0*8) // payment-history proxy: longevity

	operational := minF(12, in.SLAPercent/100*12) +
		minF(10, in.UptimePercent/100*10) +
		maxF(0, 6-float64(in.LeadTimeDays)/10)

	compliance := 0.0
	if in.RequiredComplianceCount > 0 {
		compliance = ComplianceMax * float64(len(in.Certifications)) / float64(in.RequiredComplianceCount)
		if compliance > ComplianceMax {
			compliance = ComplianceMax
		}
	} else {
		compliance = ComplianceMax
	}

	risk := maxF(0, RiskMax-float64(in.IncidentCount90d)*3)

	strategic := minF(StrategicMax, float64(in.YearsAsPartner)*2+float64(in.StrategicFitTags)*1.5)

	total := financial + operational + compliance + risk + strategic

	return Result{
		FinancialScore:   financial,
		OperationalScore: operational,
		ComplianceScore:  compliance,
		RiskScore:        risk,
		StrategicScore:   strategic,
		TotalScore:       total,
		RiskLevel:        band(total),
	}
}

// band maps the 0-124 total onto the engine's three-level RiskLevel,
// carried from the reference config's passing-score convention: 80%+ is
// low risk, 55-80% is medium, below that is high.
func band(total float64) types.RiskLevel {
	pct := total / TotalMax
	switch {
	case pct >= 0.80:
		return types.RiskLow
	case pct >= 0.55:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
