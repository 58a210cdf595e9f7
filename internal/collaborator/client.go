// Package collaborator provides the engine's stand-in for the external LLM
// text synthesizer used to turn a round's mechanical decision into
// human-readable rationale. The core only depends on the narrow
// JustificationClient interface; HTTPClient is a thin reference adapter
// over it, adapted from the platform's shared resilient HTTP client
// (retry + circuit breaker + structured logging), trimmed to the one verb
// this core needs.
package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"iaros/negotiation_engine/internal/types"
)

// JustificationClient synthesizes human-readable rationale text for a
// round. Implementations must be context-abortable: an in-flight call must
// be cancellable when the session is cancelled.
type JustificationClient interface {
	Synthesize(ctx context.Context, memory types.RoundMemory) (string, error)
}

// HTTPConfig configures HTTPClient.
type HTTPConfig struct {
	Endpoint        string
	Timeout         time.Duration
	Retries         int
	RetryInterval   time.Duration
	CircuitBreaker  bool
}

// HTTPClient posts round context to an external justification service and
// returns the synthesized text.
type HTTPClient struct {
	client         *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	config         HTTPConfig
	logger         *zap.Logger
}

// NewHTTPClient builds an HTTPClient with sane retry/circuit-breaker
// defaults, mirroring the platform's shared HTTP client.
func NewHTTPClient(cfg HTTPConfig, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}

	c := &HTTPClient{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		logger: logger,
	}

	if cfg.CircuitBreaker {
		c.circuitBreaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "justification-client",
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("circuit breaker state changed",
					zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
			},
		})
	}

	return c
}

type synthesizeRequest struct {
	Round     int    `json:"round"`
	Actor     string `json:"actor"`
	Strategy  string `json:"strategy"`
	UnitPrice string `json:"unit_price"`
}

type synthesizeResponse struct {
	Text string `json:"text"`
}

// Synthesize posts the round's mechanical facts and returns the service's
// generated rationale text.
func (c *HTTPClient) Synthesize(ctx context.Context, memory types.RoundMemory) (string, error) {
	body, err := json.Marshal(synthesizeRequest{
		Round:     memory.Round,
		Actor:     string(memory.Actor),
		Strategy:  string(memory.Strategy),
		UnitPrice: memory.Offer.UnitPrice.String(),
	})
	if err != nil {
		return "", fmt.Errorf("collaborator: marshal request: %w", err)
	}

	exec := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("collaborator: status %d", resp.StatusCode)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var out synthesizeResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out.Text, nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		var result interface{}
		if c.circuitBreaker != nil {
			result, lastErr = c.circuitBreaker.Execute(exec)
		} else {
			result, lastErr = exec()
		}
		if lastErr == nil {
			return result.(string), nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < c.config.Retries {
			c.logger.Warn("justification call retrying", zap.Int("attempt", attempt+1), zap.Error(lastErr))
			select {
			case <-time.After(c.config.RetryInterval * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("collaborator: synthesize failed after %d attempts: %w", c.config.Retries+1, lastErr)
}

// FallbackClient deterministically synthesizes rationale without any
// network call. Used as the engine's CollaboratorError fallback: after the
// configured retries are exhausted, callers continue with this client's
// output and mark rationale_degraded=true on the round memory.
type FallbackClient struct{}

// Synthesize never fails; it mechanically renders the round's strategy tag.
func (FallbackClient) Synthesize(_ context.Context, memory types.RoundMemory) (string, error) {
	return fmt.Sprintf("%s offered %s at %s per unit (round %d)", memory.Actor, memory.Strategy, memory.Offer.UnitPrice, memory.Round), nil
}
