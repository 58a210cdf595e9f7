// Package learning is the engine's optional cross-session learning
// subsystem: an in-memory accumulator of buyer and category history that
// can recommend a price-floor adjustment for a future session. Grounded
// on the reference seller agent's learning module, transcribed into an
// explicit accumulator type rather than free functions on self, since Go
// has no implicit receiver state to hang history off of.
//
// Disabled by default. The only channel by which this package may affect
// a session is types.NegotiationPlan.LearningPrior, set by a caller that
// explicitly opts in.
package learning

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/types"
)

// NegotiationRecord is one completed negotiation fed into the system.
type NegotiationRecord struct {
	BuyerOrganization     string
	Category              string
	InitialAsk            float64
	FinalPrice            float64
	Rounds                int
	Outcome               string // "won", "lost", "abandoned"
	DurationHours         float64
	ConcessionPercentage  float64
	BuyerAggressiveness   float64
	Timestamp             time.Time
}

// BuyerProfile is the learned profile of one buyer organization.
type BuyerProfile struct {
	OrganizationID    string
	NegotiationsCount int
	WinRate           float64
	AvgDiscountGiven  float64
	AvgRounds         float64
	AvgDurationHours  float64
	Aggressiveness    float64
	PriceSensitivity  float64
	RelationshipValue float64
	LastNegotiation   time.Time
}

// CategoryInsights is the learned profile of one product category.
type CategoryInsights struct {
	Category             string
	NegotiationsCount    int
	AvgDiscount          float64
	AvgRounds            float64
	WinRate              float64
	CompetitiveIntensity float64
	SeasonalPatterns     map[time.Month]float64
}

// System accumulates negotiation history and derives recommendations.
// Safe for concurrent use: all mutation goes through a single mutex,
// since unlike session-private state this accumulator is shared across
// sessions by design.
type System struct {
	mu               sync.Mutex
	history          []NegotiationRecord
	buyerProfiles    map[string]*BuyerProfile
	categoryInsights map[string]*CategoryInsights
}

// New constructs an empty learning System.
func New() *System {
	return &System{
		buyerProfiles:    make(map[string]*BuyerProfile),
		categoryInsights: make(map[string]*CategoryInsights),
	}
}

// Record folds a completed negotiation into the buyer and category profiles.
func (s *System) Record(rec NegotiationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, rec)
	s.updateBuyerProfile(rec)
	s.updateCategoryInsights(rec)
}

func runningAverage(current float64, count int, sample float64) float64 {
	return (current*float64(count-1) + sample) / float64(count)
}

func (s *System) updateBuyerProfile(rec NegotiationRecord) {
	profile, ok := s.buyerProfiles[rec.BuyerOrganization]
	if !ok {
		profile = &BuyerProfile{OrganizationID: rec.BuyerOrganization}
		s.buyerProfiles[rec.BuyerOrganization] = profile
	}

	profile.NegotiationsCount++
	n := profile.NegotiationsCount

	won := 0.0
	if rec.Outcome == "won" {
		won = 1.0
	}
	profile.WinRate = runningAverage(profile.WinRate, n, won)
	profile.AvgDiscountGiven = runningAverage(profile.AvgDiscountGiven, n, rec.ConcessionPercentage)
	profile.AvgRounds = runningAverage(profile.AvgRounds, n, float64(rec.Rounds))
	profile.AvgDurationHours = runningAverage(profile.AvgDurationHours, n, rec.DurationHours)
	profile.Aggressiveness = runningAverage(profile.Aggressiveness, n, rec.BuyerAggressiveness)

	if rec.Outcome == "won" {
		profile.PriceSensitivity = rec.ConcessionPercentage / 100.0
		profile.RelationshipValue += rec.FinalPrice
	}
	profile.LastNegotiation = rec.Timestamp
}

func (s *System) updateCategoryInsights(rec NegotiationRecord) {
	insights, ok := s.categoryInsights[rec.Category]
	if !ok {
		insights = &CategoryInsights{Category: rec.Category, SeasonalPatterns: make(map[time.Month]float64)}
		s.categoryInsights[rec.Category] = insights
	}

	insights.NegotiationsCount++
	n := insights.NegotiationsCount

	insights.AvgDiscount = runningAverage(insights.AvgDiscount, n, rec.ConcessionPercentage)
	insights.AvgRounds = runningAverage(insights.AvgRounds, n, float64(rec.Rounds))

	won := 0.0
	if rec.Outcome == "won" {
		won = 1.0
	}
	insights.WinRate = runningAverage(insights.WinRate, n, won)

	month := rec.Timestamp.Month()
	current, ok := insights.SeasonalPatterns[month]
	if !ok {
		current = 1.0
	}
	if rec.Outcome == "won" {
		insights.SeasonalPatterns[month] = current*0.9 + 1.1*0.1
	} else {
		insights.SeasonalPatterns[month] = current*0.9 + 0.9*0.1
	}
}

// BuyerProfile returns the learned profile for an organization, if any.
func (s *System) BuyerProfile(organizationID string) (BuyerProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.buyerProfiles[organizationID]
	if !ok {
		return BuyerProfile{}, false
	}
	return *p, true
}

// CategoryInsights returns the learned insights for a category, if any.
func (s *System) CategoryInsights(category string) (CategoryInsights, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categoryInsights[category]
	if !ok {
		return CategoryInsights{}, false
	}
	return *c, true
}

// RecommendedFloor derives a price-floor adjustment from buyer and
// category history, per the reference implementation's adjustment rules:
// high-value or frequent buyers and low-win-rate or high-competition
// categories each compound a further discount off baseFloor.
func (s *System) RecommendedFloor(baseFloor float64, buyerOrganization, category string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	adjusted := baseFloor

	if profile, ok := s.buyerProfiles[buyerOrganization]; ok && profile.NegotiationsCount >= 3 {
		if profile.RelationshipValue > 100_000 {
			adjusted *= 0.95
		}
		if profile.NegotiationsCount > 10 {
			adjusted *= 0.97
		}
	}

	if insights, ok := s.categoryInsights[category]; ok && insights.NegotiationsCount >= 5 {
		if insights.CompetitiveIntensity > 0.7 {
			adjusted *= 0.95
		}
		if insights.WinRate < 0.4 {
			adjusted *= 0.93
		}
	}

	return adjusted
}

// PriorFor builds the types.LearningPrior a Driver consumes to seed its
// opponent model, or nil if neither the buyer nor the category has
// enough history to produce a meaningful adjustment — callers should
// treat a nil prior the same as learning being disabled entirely.
func (s *System) PriorFor(baseFloor decimal.Decimal, buyerOrganization, category string) *types.LearningPrior {
	base, _ := baseFloor.Float64()
	adjusted := s.RecommendedFloor(base, buyerOrganization, category)
	if adjusted == base {
		return nil
	}
	hint := decimal.NewFromFloat(adjusted)
	return &types.LearningPrior{FloorHint: &hint}
}
