package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iaros/negotiation_engine/internal/types"
)

func TestInMemoryRepository_SavesTerminalState(t *testing.T) {
	repo := &InMemoryRepository{}
	state := types.SessionState{
		SessionID:       "sess-1",
		Outcome:         types.OutcomeAccepted,
		SavingsAchieved: decimal.NewFromInt(500),
	}
	require.NoError(t, repo.SaveTerminal(context.Background(), state))
	assert.Len(t, repo.Saved, 1)
	assert.Equal(t, "sess-1", repo.Saved[0].SessionID)
}

func TestInMemoryRepository_AccumulatesMultipleSessions(t *testing.T) {
	repo := &InMemoryRepository{}
	for i := 0; i < 3; i++ {
		_ = repo.SaveTerminal(context.Background(), types.SessionState{SessionID: "s"})
	}
	assert.Len(t, repo.Saved, 3)
}
