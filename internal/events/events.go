// Package events implements the engine's lifecycle event hooks: fire-and-
// forget notifications to an external collaborator. Grounded on the
// reference orchestration layer's Redis-stream-backed event bus (publish
// serializes an event and XADDs it to a stream).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Names of the engine's four lifecycle events.
const (
	SessionStarted    = "session.started"
	RoundCompleted    = "round.completed"
	SessionTerminated = "session.terminated"
	ShortlistProduced = "vendor.shortlisted"
)

// Event carries the common envelope plus a type-specific payload.
type Event struct {
	Name      string                 `json:"name"`
	SessionID string                 `json:"session_id,omitempty"`
	RequestID string                 `json:"request_id"`
	VendorID  string                 `json:"vendor_id,omitempty"`
	Round     int                    `json:"round_number,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// Publisher is the engine's consumer-side event bus interface. Calls are
// fire-and-forget from the negotiation's perspective but must still report
// failure so CollaboratorError handling can apply.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher appends events to a Redis stream, wrapped in a circuit
// breaker so a degraded event bus cannot stall session turns.
type RedisPublisher struct {
	client  *redis.Client
	stream  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewRedisPublisher constructs a RedisPublisher targeting the given stream key.
func NewRedisPublisher(client *redis.Client, stream string, logger *zap.Logger) *RedisPublisher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("event publisher circuit state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &RedisPublisher{client: client, stream: stream, breaker: breaker, logger: logger}
}

// Publish serializes event to JSON and XADDs it to the configured stream.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]interface{}{"event": raw},
		}).Result()
	})
	return err
}

// FakePublisher records events in memory for tests that need to assert on
// session lifecycle ordering without a real Redis instance.
type FakePublisher struct {
	Events []Event
}

// Publish appends the event and never fails.
func (p *FakePublisher) Publish(_ context.Context, event Event) error {
	p.Events = append(p.Events, event)
	return nil
}
