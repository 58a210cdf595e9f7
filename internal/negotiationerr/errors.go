// Package negotiationerr implements the engine's closed error taxonomy,
// adapted from the platform's shared IAROSError shape: a typed error with
// Unwrap, structured zap logging, and a uuid identity, trimmed of the
// HTTP-status and middleware concerns that shape owns no wire protocol to
// carry.
package negotiationerr

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind is one of the seven error kinds named by the engine's error design.
type Kind string

const (
	KindConfigError         Kind = "ConfigError"
	KindPolicyViolation     Kind = "PolicyViolation"
	KindGuardrailViolation  Kind = "GuardrailViolation"
	KindStrategyInfeasible  Kind = "StrategyInfeasible"
	KindTimeout             Kind = "Timeout"
	KindCancelled           Kind = "Cancelled"
	KindCollaboratorError   Kind = "CollaboratorError"
)

// NegotiationError is the engine's standardized error type.
type NegotiationError struct {
	ID        string
	Kind      Kind
	Operation string
	Message   string
	SessionID string
	Round     int
	Timestamp time.Time
	Cause     error
	Retryable bool
}

func (e *NegotiationError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("[%s] %s (session=%s round=%d): %s", e.Kind, e.Operation, e.SessionID, e.Round, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Operation, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *NegotiationError) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, operation, message string, cause error, retryable bool) *NegotiationError {
	return &NegotiationError{
		ID:        uuid.New().String(),
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     cause,
		Retryable: retryable,
	}
}

// NewConfigError reports an invalid configuration detected at construction.
func NewConfigError(operation, message string) *NegotiationError {
	return newError(KindConfigError, operation, message, nil, false)
}

// NewPolicyViolation reports a static request-side policy breach.
func NewPolicyViolation(operation, message string) *NegotiationError {
	return newError(KindPolicyViolation, operation, message, nil, false)
}

// NewGuardrailViolation reports a vendor-side guardrail breach.
func NewGuardrailViolation(operation, message string) *NegotiationError {
	return newError(KindGuardrailViolation, operation, message, nil, false)
}

// NewStrategyInfeasible reports an empty ZOPA or other infeasibility.
func NewStrategyInfeasible(operation, message string) *NegotiationError {
	return newError(KindStrategyInfeasible, operation, message, nil, false)
}

// NewTimeout reports a round deadline exceeded.
func NewTimeout(operation, message string) *NegotiationError {
	return newError(KindTimeout, operation, message, nil, false)
}

// NewCancelled reports an external cancellation signal.
func NewCancelled(operation, message string) *NegotiationError {
	return newError(KindCancelled, operation, message, nil, false)
}

// NewCollaboratorError reports an event-bus or LLM-collaborator failure.
// Retryable by default per the error design's 3x backoff policy.
func NewCollaboratorError(operation, message string, cause error) *NegotiationError {
	err := newError(KindCollaboratorError, operation, message, cause, true)
	return err
}

// WithSession attaches session/round context, returning the same error for
// chaining at the call site.
func (e *NegotiationError) WithSession(sessionID string, round int) *NegotiationError {
	e.SessionID = sessionID
	e.Round = round
	return e
}

// Log writes the error through the given zap logger at a level appropriate
// to its kind.
func (e *NegotiationError) Log(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("error_id", e.ID),
		zap.String("kind", string(e.Kind)),
		zap.String("operation", e.Operation),
		zap.Bool("retryable", e.Retryable),
	}
	if e.SessionID != "" {
		fields = append(fields, zap.String("session_id", e.SessionID), zap.Int("round", e.Round))
	}
	if e.Cause != nil {
		fields = append(fields, zap.Error(e.Cause))
	}
	switch e.Kind {
	case KindCollaboratorError, KindTimeout:
		logger.Warn(e.Message, fields...)
	default:
		logger.Error(e.Message, fields...)
	}
}

// IsRetryable reports whether err is a NegotiationError marked retryable.
func IsRetryable(err error) bool {
	if ne, ok := err.(*NegotiationError); ok {
		return ne.Retryable
	}
	return false
}
