package learning

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSystem_RecordUpdatesBuyerProfile(t *testing.T) {
	s := New()
	s.Record(NegotiationRecord{
		BuyerOrganization: "acme-corp", Category: "saas", Outcome: "won",
		ConcessionPercentage: 12, Rounds: 4, DurationHours: 3, BuyerAggressiveness: 0.6,
		FinalPrice: 50000, Timestamp: time.Now(),
	})
	profile, ok := s.BuyerProfile("acme-corp")
	assert.True(t, ok)
	assert.Equal(t, 1, profile.NegotiationsCount)
	assert.Equal(t, 1.0, profile.WinRate)
}

func TestSystem_RecommendedFloor_UnknownBuyerUnchanged(t *testing.T) {
	s := New()
	assert.Equal(t, 1000.0, s.RecommendedFloor(1000, "nobody", "nothing"))
}

func TestSystem_RecommendedFloor_HighValueBuyerGetsDiscount(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		s.Record(NegotiationRecord{
			BuyerOrganization: "big-co", Category: "hardware", Outcome: "won",
			FinalPrice: 200000, Rounds: 3, Timestamp: time.Now(),
		})
	}
	floor := s.RecommendedFloor(1000, "big-co", "hardware")
	assert.Less(t, floor, 1000.0)
}

func TestSystem_PriorFor_NilWhenNoAdjustment(t *testing.T) {
	s := New()
	prior := s.PriorFor(decimal.NewFromInt(1000), "nobody", "nothing")
	assert.Nil(t, prior)
}

func TestSystem_PriorFor_SetWhenAdjusted(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		s.Record(NegotiationRecord{
			BuyerOrganization: "big-co", Category: "hardware", Outcome: "won",
			FinalPrice: 200000, Rounds: 3, Timestamp: time.Now(),
		})
	}
	prior := s.PriorFor(decimal.NewFromInt(1000), "big-co", "hardware")
	assert.NotNil(t, prior)
	assert.True(t, prior.FloorHint.LessThan(decimal.NewFromInt(1000)))
}
