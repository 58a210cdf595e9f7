package collaborator

import (
	"context"

	"iaros/negotiation_engine/internal/types"
)

// SynthesizeWithFallback calls client.Synthesize and, on any error (the
// primary's retries are exhausted or the circuit is open), falls back to a
// deterministic rationale and reports degraded=true — the engine's
// CollaboratorError handling for the justification collaborator.
func SynthesizeWithFallback(ctx context.Context, client JustificationClient, memory types.RoundMemory) (text string, degraded bool) {
	out, err := client.Synthesize(ctx, memory)
	if err != nil {
		fallback, _ := FallbackClient{}.Synthesize(ctx, memory)
		return fallback, true
	}
	return out, false
}
