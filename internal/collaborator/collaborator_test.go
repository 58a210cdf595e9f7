package collaborator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"iaros/negotiation_engine/internal/types"
)

type failingClient struct{ err error }

func (f failingClient) Synthesize(_ context.Context, _ types.RoundMemory) (string, error) {
	return "", f.err
}

func testMemory() types.RoundMemory {
	return types.RoundMemory{
		Round:    3,
		Actor:    types.ActorSeller,
		Strategy: types.StrategyHoldFirm,
		Offer:    types.OfferComponents{UnitPrice: decimal.NewFromInt(1100)},
	}
}

func TestFallbackClient_NeverFails(t *testing.T) {
	text, err := FallbackClient{}.Synthesize(context.Background(), testMemory())
	assert.NoError(t, err)
	assert.Contains(t, text, "SELLER")
}

func TestSynthesizeWithFallback_UsesPrimaryOnSuccess(t *testing.T) {
	ok := failingClient{err: nil}
	text, degraded := SynthesizeWithFallback(context.Background(), ok, testMemory())
	assert.False(t, degraded)
	assert.Equal(t, "", text)
}

func TestSynthesizeWithFallback_FallsBackOnError(t *testing.T) {
	bad := failingClient{err: errors.New("boom")}
	text, degraded := SynthesizeWithFallback(context.Background(), bad, testMemory())
	assert.True(t, degraded)
	assert.NotEmpty(t, text)
}
